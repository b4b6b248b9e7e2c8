// Command inspect prints the rooms, users and records of a drinkspeed BadgerDB.
package main

import (
	"drinkspeed/domain"
	"drinkspeed/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Prefix to scan (room:, user:, drink:, reaction:, idx:room:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.New(color.BgBlack, color.FgGreen).Printf("  ====== %s %s ======  \n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Time", "Owner", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entry, err := repositories.DecodeEntry(item.KeyCopy(nil), value)
			if err != nil {
				// A bad record must not hide the others
				color.Red.Printf("Error decoding key %s: %v\n", item.Key(), err)
				continue
			}
			table.Append(row(entry))
			count++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	table.Render()
	color.Gray.Printf("%d entries\n", count)
}

func row(entry repositories.Entry) []string {
	switch v := entry.Value.(type) {
	case domain.Room:
		return []string{entry.Key, entry.Kind, v.CreatedAt.Format("15:04:05"), string(v.Code),
			fmt.Sprintf("%q %s", v.Name, v.Status)}
	case domain.User:
		detail := fmt.Sprintf("%q %.2f glasses", v.Name, v.TotalUnits)
		if v.Rank != nil {
			detail += " rank " + strconv.Itoa(*v.Rank)
		}
		if v.IsFinished() {
			detail += " finished"
		}
		return []string{entry.Key, entry.Kind, v.JoinedAt.Format("15:04:05"), string(v.RoomCode), detail}
	case domain.DrinkRecord:
		return []string{entry.Key, entry.Kind, v.RecordedAt.Format("15:04:05"), string(v.UserID),
			fmt.Sprintf("%d x %s = %.2f", v.Quantity, v.Category, v.Units)}
	case domain.ReactionRecord:
		return []string{entry.Key, entry.Kind, v.RecordedAt.Format("15:04:05"), string(v.UserID),
			fmt.Sprintf("%d ms", v.LatencyMs)}
	default:
		return []string{entry.Key, entry.Kind, "--:--:--", fmt.Sprint(v), ""}
	}
}
