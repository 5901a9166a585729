package calendar

import "ziwei-lab/internal/domain"

// zodiacAnimals in branch order, 子 first.
var zodiacAnimals = []string{
	"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪",
}

// Zodiac returns the Chinese zodiac animal of a year.
func Zodiac(year int) string {
	return zodiacAnimals[domain.YearBranchIndex(year)]
}

// constellation boundaries: entry i covers dates from (month, day) up to
// the next entry's boundary.
var constellations = []struct {
	month, day int
	name       string
}{
	{1, 20, "水瓶座"}, {2, 19, "双鱼座"}, {3, 21, "白羊座"}, {4, 20, "金牛座"},
	{5, 21, "双子座"}, {6, 22, "巨蟹座"}, {7, 23, "狮子座"}, {8, 23, "处女座"},
	{9, 23, "天秤座"}, {10, 24, "天蝎座"}, {11, 23, "射手座"}, {12, 22, "摩羯座"},
}

// Constellation returns the western constellation for a solar month/day.
func Constellation(month, day int) string {
	if month < 1 || month > 12 {
		return ""
	}
	i := month - 1
	if day < constellations[i].day {
		// Before this month's boundary: previous sign.
		i = (i + 11) % 12
	}
	return constellations[i].name
}
