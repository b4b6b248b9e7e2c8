package runtime

import (
	"drinkspeed/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word, with CRLF and comments
	fsys := fstest.MapFS{
		"censored/en.txt":    {Data: []byte("# english\r\njerk\r\nLoser\r\n\r\n")},
		"censored/ko.txt":    {Data: []byte("바보\njerk\n")},
		"censored/README.md": {Data: []byte("ignored")},
	}

	// When loading the folder
	data, err := NewCensoredLoader(fsys).LoadAll("censored")

	// Then words are merged, lowered and sorted
	req.NoError(err)
	req.Equal([]string{"jerk", "loser", "바보"}, data.Words)
	req.ElementsMatch([]string{"en", "ko"}, data.Languages)
}

func TestCensoredLoader_Empty_Folder(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{"censored/en.txt": {Data: []byte("\n# nothing\n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_Embedded_Dictionaries(t *testing.T) {
	req := require.New(t)

	data, err := NewCensoredLoader(censoredFolder).LoadAll("censored")

	req.NoError(err)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "ko")
	req.Contains(data.Words, "jerk")
}
