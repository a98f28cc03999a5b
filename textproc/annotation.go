package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Annotation tag names.
const (
	PairTag   = "phr_pair_annot"
	SourceTag = "src_segm"
	TargetTag = "trg_segm"
	LengthTag = "length_limit"
)

var annotationRe = regexp.MustCompile(
	`(<` + PairTag + `>)[ ]*(<` + SourceTag + `>)(.+?)(</` + SourceTag + `>)[ ]*` +
		`(<` + TargetTag + `>)(.+?)(</` + TargetTag + `>)[ ]*(</` + PairTag + `>)` +
		`|(<` + LengthTag + `>)[ ]*(\d+)[ ]*(</` + LengthTag + `>)`)

// Segment is one piece of an annotated line: either a tag or literal text.
type Segment struct {
	Tag  bool
	Text string
}

// ParseSkeleton splits an annotated line into tags and literal text.
// A phrase-pair annotation yields eight segments and a length-limit
// annotation three; text outside annotations is kept verbatim.
func ParseSkeleton(line string) []Segment {
	var skel []Segment
	offset := 0
	for _, m := range annotationRe.FindAllStringSubmatchIndex(line, -1) {
		if offset < m[0] {
			skel = append(skel, Segment{Text: line[offset:m[0]]})
		}
		offset = m[1]

		group := func(i int) string { return line[m[2*i]:m[2*i+1]] }
		if m[2] >= 0 {
			for i := 1; i <= 8; i++ {
				// The phrase texts are groups 3 and 6.
				skel = append(skel, Segment{Tag: i != 3 && i != 6, Text: group(i)})
			}
		} else {
			skel = append(skel,
				Segment{Tag: true, Text: group(9)},
				Segment{Text: group(10)},
				Segment{Tag: true, Text: group(11)})
		}
	}
	if offset < len(line) {
		skel = append(skel, Segment{Text: line[offset:]})
	}
	return skel
}

// Tokenize tokenizes the literal text of an annotated line with the default
// tokenizer. Tags are kept as single tokens.
func Tokenize(line string) []string {
	return DefaultTokenizer().TokenizeAnnotated(line)
}

// TokenizeAnnotated is Tokenize with t as the tokenizer.
func (t *Tokenizer) TokenizeAnnotated(line string) []string {
	var tokens []string
	for _, seg := range ParseSkeleton(line) {
		if seg.Tag {
			tokens = append(tokens, seg.Text)
			continue
		}
		tokens = append(tokens, t.Tokenize(seg.Text)...)
	}
	return tokens
}

// Lowercase lower-cases the literal text of an annotated line, leaving tags intact.
func Lowercase(line string) string {
	lower := cases.Lower(xlanguage.Und)
	parts := make([]string, 0, 4)
	for _, seg := range ParseSkeleton(line) {
		txt := strings.TrimSpace(seg.Text)
		if !seg.Tag {
			txt = lower.String(txt)
		}
		if txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// Normalize returns line in Unicode normalization form C.
func Normalize(line string) string {
	return norm.NFC.String(line)
}

// RemoveAnnotations strips annotation markup, keeping the plain text and the
// source side of phrase-pair annotations.
func RemoveAnnotations(line string) string {
	keepAfter := map[string]bool{
		"<" + SourceTag + ">":  true,
		"</" + LengthTag + ">": true,
		"</" + PairTag + ">":   true,
	}
	skel := ParseSkeleton(line)
	var tokens []string
	for i, seg := range skel {
		txt := strings.TrimSpace(seg.Text)
		if seg.Tag || txt == "" {
			continue
		}
		if i == 0 || !skel[i-1].Tag || keepAfter[strings.TrimSpace(skel[i-1].Text)] {
			tokens = append(tokens, txt)
		}
	}
	return strings.Join(tokens, " ")
}

// Categorize replaces numeric words with category placeholders. Inside a
// phrase-pair annotation both sides are categorized only when they carry the
// same number of each category, so the pair stays consistent.
func Categorize(line string) string {
	var out []string
	var state, src, trg string
	for _, seg := range ParseSkeleton(line) {
		if !seg.Tag {
			switch state {
			case "":
				for _, w := range strings.Fields(seg.Text) {
					out = append(out, CategorizeWord(w))
				}
			case LengthTag:
				out = append(out, strings.Fields(seg.Text)...)
			case SourceTag:
				src = seg.Text
			case TargetTag:
				trg = seg.Text
			}
			continue
		}

		switch seg.Text {
		case "<" + LengthTag + ">":
			out = append(out, seg.Text)
			state = LengthTag
		case "</" + LengthTag + ">":
			out = append(out, seg.Text)
			state = ""
		case "<" + PairTag + ">", "</" + PairTag + ">":
			out = append(out, seg.Text)
		case "<" + SourceTag + ">":
			state = SourceTag
		case "<" + TargetTag + ">":
			state = TargetTag
		case "</" + SourceTag + ">":
			state = ""
		case "</" + TargetTag + ">":
			state = ""
			cs, ct := categorizePair(strings.Fields(src), strings.Fields(trg))
			out = append(out, "<"+SourceTag+">")
			out = append(out, cs...)
			out = append(out, "</"+SourceTag+">", "<"+TargetTag+">")
			out = append(out, ct...)
			out = append(out, "</"+TargetTag+">")
		}
	}
	return strings.Join(out, " ")
}

func categorizePair(src, trg []string) ([]string, []string) {
	cs := make([]string, len(src))
	ct := make([]string, len(trg))
	counts := make(map[string]int)
	for i, w := range src {
		cs[i] = CategorizeWord(w)
		if IsCategory(cs[i]) {
			counts[cs[i]]++
		}
	}
	for i, w := range trg {
		ct[i] = CategorizeWord(w)
		if IsCategory(ct[i]) {
			counts[ct[i]]--
		}
	}
	for _, n := range counts {
		if n != 0 {
			return src, trg
		}
	}
	return cs, ct
}
