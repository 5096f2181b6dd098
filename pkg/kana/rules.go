package kana

import "sort"

// MaxKeyLength is the longest romaji key a RuleTable accepts.
const MaxKeyLength = 4

// Rule maps one romaji syllable key to its hiragana output.
type Rule struct {
	Key   string
	Value string
}

// RuleTable is a static romaji -> hiragana mapping matched longest key first.
type RuleTable struct {
	rules  map[string]string
	maxLen int
}

// NewRuleTable builds a table from the given rules.
// Keys outside 1..MaxKeyLength runes are ignored; later duplicates win.
func NewRuleTable(rules []Rule) *RuleTable {
	t := &RuleTable{rules: make(map[string]string, len(rules))}
	for _, r := range rules {
		n := len([]rune(r.Key))
		if n == 0 || n > MaxKeyLength {
			continue
		}
		t.rules[r.Key] = r.Value
		if n > t.maxLen {
			t.maxLen = n
		}
	}
	return t
}

// Match tries the longest key first and returns the kana and the number of
// runes consumed. A zero count means nothing matched.
func (t *RuleTable) Match(s []rune) (string, int) {
	n := t.maxLen
	if len(s) < n {
		n = len(s)
	}
	for ; n > 0; n-- {
		if v, ok := t.rules[string(s[:n])]; ok {
			return v, n
		}
	}
	return "", 0
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// Rules returns the table sorted by descending key length, then key.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for k, v := range t.rules {
		out = append(out, Rule{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len([]rune(out[i].Key)), len([]rune(out[j].Key))
		if li != lj {
			return li > lj
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// DefaultRules is the stock Hepburn-ish table.
// There is deliberately no bare "n" key: the nasal mora is only produced
// by "nn" or "n'" in the transliterator.
var DefaultRules = []Rule{
	// vowels
	{"a", "あ"}, {"i", "い"}, {"u", "う"}, {"e", "え"}, {"o", "お"},
	// k
	{"ka", "か"}, {"ki", "き"}, {"ku", "く"}, {"ke", "け"}, {"ko", "こ"},
	{"kya", "きゃ"}, {"kyu", "きゅ"}, {"kyo", "きょ"},
	// s
	{"sa", "さ"}, {"shi", "し"}, {"su", "す"}, {"se", "せ"}, {"so", "そ"},
	{"sha", "しゃ"}, {"shu", "しゅ"}, {"sho", "しょ"},
	// t
	{"ta", "た"}, {"chi", "ち"}, {"tsu", "つ"}, {"te", "て"}, {"to", "と"},
	{"cha", "ちゃ"}, {"chu", "ちゅ"}, {"cho", "ちょ"},
	// n
	{"na", "な"}, {"ni", "に"}, {"nu", "ぬ"}, {"ne", "ね"}, {"no", "の"},
	{"nya", "にゃ"}, {"nyu", "にゅ"}, {"nyo", "にょ"},
	// h
	{"ha", "は"}, {"hi", "ひ"}, {"fu", "ふ"}, {"he", "へ"}, {"ho", "ほ"},
	{"hya", "ひゃ"}, {"hyu", "ひゅ"}, {"hyo", "ひょ"},
	// m
	{"ma", "ま"}, {"mi", "み"}, {"mu", "む"}, {"me", "め"}, {"mo", "も"},
	{"mya", "みゃ"}, {"myu", "みゅ"}, {"myo", "みょ"},
	// y
	{"ya", "や"}, {"yu", "ゆ"}, {"yo", "よ"},
	// r
	{"ra", "ら"}, {"ri", "り"}, {"ru", "る"}, {"re", "れ"}, {"ro", "ろ"},
	{"rya", "りゃ"}, {"ryu", "りゅ"}, {"ryo", "りょ"},
	// w
	{"wa", "わ"}, {"wi", "うぃ"}, {"we", "うぇ"}, {"wo", "を"},
	// g
	{"ga", "が"}, {"gi", "ぎ"}, {"gu", "ぐ"}, {"ge", "げ"}, {"go", "ご"},
	{"gya", "ぎゃ"}, {"gyu", "ぎゅ"}, {"gyo", "ぎょ"},
	// z / j
	{"za", "ざ"}, {"ji", "じ"}, {"zu", "ず"}, {"ze", "ぜ"}, {"zo", "ぞ"},
	{"ja", "じゃ"}, {"ju", "じゅ"}, {"jo", "じょ"},
	// d
	{"da", "だ"}, {"de", "で"}, {"do", "ど"},
	// b
	{"ba", "ば"}, {"bi", "び"}, {"bu", "ぶ"}, {"be", "べ"}, {"bo", "ぼ"},
	{"bya", "びゃ"}, {"byu", "びゅ"}, {"byo", "びょ"},
	// p
	{"pa", "ぱ"}, {"pi", "ぴ"}, {"pu", "ぷ"}, {"pe", "ぺ"}, {"po", "ぽ"},
	{"pya", "ぴゃ"}, {"pyu", "ぴゅ"}, {"pyo", "ぴょ"},
	// f / v loanword sounds
	{"fa", "ふぁ"}, {"fi", "ふぃ"}, {"fe", "ふぇ"}, {"fo", "ふぉ"},
	{"va", "ゔぁ"}, {"vi", "ゔぃ"}, {"vu", "ゔ"}, {"ve", "ゔぇ"}, {"vo", "ゔぉ"},
	// small kana
	{"xa", "ぁ"}, {"xi", "ぃ"}, {"xu", "ぅ"}, {"xe", "ぇ"}, {"xo", "ぉ"},
	{"xtsu", "っ"}, {"ltsu", "っ"},
}

var defaultTable = NewRuleTable(DefaultRules)

// DefaultTable returns the shared table built from DefaultRules.
func DefaultTable() *RuleTable {
	return defaultTable
}
