package stars

// Fixed star classification tables. Stars outside all three sets are
// auxiliary/neutral and stay unclassified.

// MainStars are the 14 major stars.
var MainStars = []string{
	"紫微", "天机", "太阳", "武曲", "天同", "廉贞", "天府",
	"太阴", "贪狼", "巨门", "天相", "天梁", "七杀", "破军",
}

// LuckyStars are the auspicious auxiliary stars (六吉 plus 禄存/天马).
var LuckyStars = []string{
	"左辅", "右弼", "文昌", "文曲", "天魁", "天钺", "禄存", "天马",
}

// EvilStars are the malefic auxiliary stars (六煞).
var EvilStars = []string{
	"擎羊", "陀罗", "火星", "铃星", "地空", "地劫",
}

// KeyStars are the commanding stars whose palace location is resolved
// explicitly on every chart.
var KeyStars = []string{
	"紫微", "天府", "天相", "武曲", "七杀", "破军",
}

var (
	mainSet  = toSet(MainStars)
	luckySet = toSet(LuckyStars)
	evilSet  = toSet(EvilStars)
)

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
