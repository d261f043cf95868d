package titlescan

import "strings"

// anchorWords mark where real title content tends to start on a noisy
// drawing line. Scanning takes the earliest hit, not the list order.
var anchorWords = []string{
	"V/D", "VENDOR", "DRAWING",
	"SPARE", "TOOLS", "LIST",
	"ARRANGEMENT", "VALVE", "EQUIPMENT",
	"NAME", "CAUTION", "PLATE",
	"ICCP", "PAINTING", "DOCKING",
	"FLOWMETER", "COOLER", "PUMP",
	"STEERING", "RUDDER", "FOUNDATION", "CONSTRUCTION",
	"INSTALLATION", "DOOR", "INSULATION", "CRANE", "LIFTING",
	"AIR-CON", "AIRCON", "PROVISION", "REFRIGERATING",
}

// SliceFromFirstAnchor cuts the leading code/number prefix off a title line
// by keeping everything from the earliest anchor word onward. The prefix
// survives when it is short and mostly alphabetic, since then it is probably
// part of the title itself. A line already starting with the canonical
// "V/D of" is never sliced.
func SliceFromFirstAnchor(s string) string {
	if s == "" {
		return ""
	}
	s = NormalizeTitleTerms(s)

	up := strings.ToUpper(s)
	if strings.HasPrefix(up, "V/D OF") {
		return s
	}

	best := -1
	for _, w := range anchorWords {
		if idx := strings.Index(up, w); idx != -1 && (best == -1 || idx < best) {
			best = idx
		}
	}
	if best == -1 {
		return s
	}

	head := s[:best]
	if alphaRatio(head) < 0.40 || len(head) > 12 {
		return strings.TrimSpace(s[best:])
	}
	return s
}
