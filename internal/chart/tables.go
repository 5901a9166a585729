package chart

// directions is the 8-point compass table; ring positions cycle over it
// with period 8, so position 9 shares a direction with position 1.
var directions = []string{
	"北", "东北", "东", "东南", "南", "西南", "西", "西北",
}

// UnknownMeaning is the sentinel for a palace name outside the meaning
// table. Presentational metadata, never an error.
const UnknownMeaning = "未知宫位"

// meanings maps each canonical palace to its life-domain reading.
var meanings = map[string]string{
	"命宫":  "先天禀赋与一生格局",
	"兄弟宫": "手足情谊与平辈助力",
	"夫妻宫": "婚姻感情与配偶缘分",
	"子女宫": "子女缘分与晚辈关系",
	"财帛宫": "财运收入与理财方式",
	"疾厄宫": "健康体质与灾病倾向",
	"迁移宫": "外出发展与人际际遇",
	"交友宫": "朋友部属与群体关系",
	"官禄宫": "事业成就与职场际遇",
	"田宅宫": "不动产与家庭环境",
	"福德宫": "精神生活与福分享受",
	"父母宫": "父母长辈与庇荫关系",
}

// Direction returns the compass direction of a ring position (1-12).
func Direction(position int) string {
	if position < 1 {
		return ""
	}
	return directions[(position-1)%len(directions)]
}

// Meaning returns the life-domain meaning of a palace name, or the
// UnknownMeaning sentinel.
func Meaning(name string) string {
	if m, ok := meanings[name]; ok {
		return m
	}
	return UnknownMeaning
}
