package ai

import (
	"drinkspeed/domain"
	"fmt"
	"time"
)

// CommentaryInput is what the commentary of a finished participant is written from.
type CommentaryInput struct {
	Name        string
	Elapsed     time.Duration
	TotalUnits  float64
	RatePerHour float64
	Tier        domain.Tier
	Rank        int
}

var koreanTierNames = [domain.TierCount]string{
	"개구리 다이버",
	"알딸딸 다람쥐",
	"지갑은 지킨다",
	"술고래 후보생",
	"인간 알코올",
}

func tierName(lang Language, t domain.Tier) string {
	if lang == Korean && t >= 0 && int(t) < domain.TierCount {
		return koreanTierNames[t]
	}
	return t.String()
}

func CommentaryPrompt(lang Language, in CommentaryInput) string {
	if lang == Korean {
		return fmt.Sprintf("사용자 '%s'님의 술자리 결과를 재미있고 창의적으로 요약해줘. "+
			"최종 순위는 %d등이고, 캐릭터 레벨은 '%s'이며, 시간당 소주 %.1f잔을 마셨어. 총 소주 환산량은 %.1f잔이야. "+
			"노고를 치하하고 다음에도 함께하고 싶게 만드는 유머러스한 2-3문장의 한 줄 평만 한글로 출력해줘.",
			in.Name, in.Rank, tierName(lang, in.Tier), in.RatePerHour, in.TotalUnits)
	}
	return fmt.Sprintf("Summarize the drinking session of '%s' in a fun and creative way. "+
		"Final rank: %d, character level: '%s', %.1f soju glasses per hour, %.1f soju-equivalent glasses in total. "+
		"Write only a humorous 2-3 sentence review that salutes the effort and makes people want to drink together again.",
		in.Name, in.Rank, tierName(lang, in.Tier), in.RatePerHour, in.TotalUnits)
}

func RoomNamePrompt(lang Language) string {
	if lang == Korean {
		return "재미있고 창의적인 술자리 방 이름을 하나만 생성해줘. " +
			"한국어로 10자 이내로 유머러스하게 만들고, 방 이름만 출력해줘."
	}
	return "Invent one funny and creative name for a drinking party room. " +
		"Keep it under 30 characters and output the name only."
}

// FallbackCommentary is the deterministic text used whenever generation fails.
func FallbackCommentary(lang Language, in CommentaryInput) string {
	if lang == Korean {
		return fmt.Sprintf("%s님! 총 %s 동안 %.1f잔 즐기셨네요.", in.Name, formatDuration(lang, in.Elapsed), in.TotalUnits)
	}
	return fmt.Sprintf("%s! You enjoyed %s and drank %.1f soju-equivalent glasses.",
		in.Name, formatDuration(lang, in.Elapsed), in.TotalUnits)
}

var fallbackRoomNames = []string{
	"오늘만 산다🍺",
	"술자리 레전드",
	"한잔의 여유",
	"취중진담방",
	"술고래들의 모임",
	"간이 부르는 곳",
	"해 뜰 때까지",
	"주량 측정소",
	"알쓰 탈출 프로젝트",
	"소주 한잔 해요",
	"맥주는 역시",
	"소맥 타임",
	"막걸리 한사발",
	"과일소주 파티",
	"주당들의 향연",
}

// FallbackRoomName picks a name from a fixed list, keyed by the room code so a room keeps its name.
func FallbackRoomName(code domain.RoomCode) string {
	sum := 0
	for _, r := range code {
		sum = sum*31 + int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return fallbackRoomNames[sum%len(fallbackRoomNames)]
}

func formatDuration(lang Language, d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	if lang == Korean {
		switch {
		case h > 0:
			return fmt.Sprintf("%d시간 %d분", h, m)
		case m > 0:
			return fmt.Sprintf("%d분 %d초", m, s)
		default:
			return fmt.Sprintf("%d초", s)
		}
	}
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
