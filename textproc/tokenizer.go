package textproc

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// DefaultAtoms are strings the tokenizer never splits: abbreviations,
// clock times and emoticons.
var DefaultAtoms = []string{
	"'em", "'ol", "vs.", "Ms.", "Mr.", "Dr.", "Mrs.", "Messrs.", "Gov.", "Gen.",
	"Mt.", "Corp.", "Inc.", "Co.", "co.", "Ltd.", "Bros.", "Rep.", "Sen.", "Jr.",
	"Rev.", "Adm.", "St.", "a.m.", "p.m.",
	"1a.m.", "2a.m.", "3a.m.", "4a.m.", "5a.m.", "6a.m.", "7a.m.", "8a.m.", "9a.m.", "10a.m.", "11a.m.", "12a.m.",
	"1am", "2am", "3am", "4am", "5am", "6am", "7am", "8am", "9am", "10am", "11am", "12am",
	"1p.m.", "2p.m.", "3p.m.", "4p.m.", "5p.m.", "6p.m.", "7p.m.", "8p.m.", "9p.m.", "10p.m.", "11p.m.", "12p.m.",
	"1pm", "2pm", "3pm", "4pm", "5pm", "6pm", "7pm", "8pm", "9pm", "10pm", "11pm", "12pm",
	"Jan.", "Feb.", "Mar.", "Apr.", "May.", "Jun.", "Jul.", "Aug.", "Sep.", "Sept.", "Oct.", "Nov.", "Dec.",
	"Ala.", "Ariz.", "Ark.", "Calif.", "Colo.", "Conn.", "Del.", "D.C.", "Fla.", "Ga.", "Ill.", "Ind.",
	"Kans.", "Kan.", "Ky.", "La.", "Md.", "Mass.", "Mich.", "Minn.", "Miss.", "Mo.", "Mont.", "Nebr.",
	"Neb.", "Nev.", "N.H.", "N.J.", "N.M.", "N.Y.", "N.C.", "N.D.", "Okla.", "Ore.", "Pa.", "Tenn.",
	"Va.", "Wash.", "Wis.",
	":)", "<3", ";)", "(:", ":(", "-_-", "=)", ":/", ":>", ";-)", ":Y", ":P", ":-P", ":3", "=3", "xD",
	"^_^", "=]", "=D", "<333", ":))", ":0", "-__-", "xDD", "o_o", "o_O", "V_V", "=[[", "<33", ";p",
	";D", ";-p", ";(", ":p", ":]", ":O", ":-/", ":-)", ":(((", ":((", ":')", "(^_^)", "(=", "o.O",
	"a.", "b.", "c.", "d.", "e.", "f.", "g.", "h.", "i.", "j.", "k.", "l.", "m.", "n.", "o.", "p.",
	"q.", "s.", "t.", "u.", "v.", "w.", "x.", "y.", "z.",
	"i.e.", "I.e.", "I.E.", "e.g.", "E.g.", "E.G.",
}

// DefaultWordChars are the characters that make up a word token.
const DefaultWordChars = "-&" +
	"0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝÞß" +
	"àáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ" +
	"ĀāĂăĄąĆćĈĉĊċČčĎďĐđĒēĔĕĖėĘęĚěĜĝĞğ" +
	"ĠġĢģĤĥĦħĨĩĪīĬĭĮįİıĲĳĴĵĶķĸĹĺĻļĽľĿŀŁł" +
	"ńŅņŇňŉŊŋŌōŎŏŐőŒœŔŕŖŗŘřŚśŜŝŞşŠšŢţŤťŦŧ" +
	"ŨũŪūŬŭŮůŰűŲųŴŵŶŷŸŹźŻżŽžſ" +
	"ΑΒΓΔΕΖΗΘΙΚΛΜΝΟΠΡΣΤΥΦΧΨΩΪΫ" +
	"άέήίΰαβγδεζηθικλμνξοπρςστυφχψω"

// Tokenizer splits raw text into tokens whose concatenation, ignoring
// whitespace, reproduces the input.
type Tokenizer struct {
	re *regexp.Regexp
}

// NewTokenizer builds a tokenizer from an atom list and a word character set.
// Longer atoms take precedence over their prefixes. Matching is case-insensitive.
func NewTokenizer(atoms []string, wordChars string) *Tokenizer {
	sorted := append([]string(nil), atoms...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted)+4)
	for _, a := range sorted {
		if a == "" {
			continue
		}
		p := regexp.QuoteMeta(a)
		// Only atoms ending in a word character need a boundary; one ending
		// in punctuation is already delimited.
		if isWordByte(a[len(a)-1]) {
			p += `\b`
		}
		alts = append(alts, p)
	}
	alts = append(alts,
		`\b[0-9]+[,.][0-9]+[a-zA-Z]+\b`,
		`\b[0-9]+[,.][0-9]+\b`,
		"["+quoteClass(wordChars)+"]+(?:'[sS])?",
		`\s+`,
	)
	return &Tokenizer{re: regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)}
}

var defaultTokenizer = NewTokenizer(DefaultAtoms, DefaultWordChars)

// DefaultTokenizer returns the tokenizer built from DefaultAtoms and DefaultWordChars.
func DefaultTokenizer() *Tokenizer { return defaultTokenizer }

// Tokenize splits text into tokens. Text between matches is kept as its own
// token and whitespace is dropped. A single hyphen-chained word
// (e.g. "a-b-c") is split at its hyphens first.
func (t *Tokenizer) Tokenize(text string) []string {
	if len(strings.Fields(text)) == 1 && strings.Count(text, "-") > 1 {
		text = strings.ReplaceAll(text, "-", " ")
	}

	var tokens []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			tokens = append(tokens, s)
		}
	}
	p := 0
	for _, loc := range t.re.FindAllStringIndex(text, -1) {
		if loc[0] > p {
			add(text[p:loc[0]])
		}
		add(text[loc[0]:loc[1]])
		p = loc[1]
	}
	if p < len(text) {
		add(text[p:])
	}
	return tokens
}

func isWordByte(b byte) bool {
	return b < 0x80 && (b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}

// quoteClass escapes the characters that are special inside a bracket expression.
func quoteClass(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ']', '[', '^':
			b.WriteRune('\\')
		case '-':
			b.WriteString(`\`)
		}
		b.WriteRune(r)
	}
	return b.String()
}
