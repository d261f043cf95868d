package titlescan

import "sort"

// systemKeywords are the domain phrases that mark a line as title material.
// Order matters for scanning; the keyword scan additionally sorts a deduped
// copy longest-first so specific phrases beat their generic substrings.
var systemKeywords = []string{
	"ARRANGEMENT", "ARR'T", "ARR T", "ARRANGMENT",
	"E/R", "E-R", "E R",
	"WORK SHOP", "WORKSHOP", "STORE",
	"SPARE PARTS", "TOOLS LIST", "SPARE PARTS AND TOOLS LIST", "SPARE PARTS & TOOLS LIST",
	"MAIN ENGINE", "AUX", "AUX. MACHINERY", "AUX MACHINERY",
	"VALVE LIST", "V/V LIST",
	"ICCP", "I.C.C.P.",
	"PAINTING SPECIFICATION",
	"DOCKING ANALYSIS", "DOCKING PLAN",
	"ACCOMMODATION", "DECK MACHINERY",
	"SIDE THRUSTER", "STERN THRUSTER", "BOW THRUSTER",
	"FIRE FIGHTING", "FIRE APPLIANCE",
	"AIR CONDITIONING PLANT",
	"PROVISION REFRIGERATING PLANT",
	"GALLEY AND LAUNDRY EQUIPMENT",
	"SEWAGE TREATMENT PLANT",
	"MACHINERY ARRANGEMENT",
	"EQUIPMENT LIST",
	"FLOWMETER", "FLOW METER",
	"PLATE TYPE COOLER",
	"CENTRIFUGAL PUMP",
	"M.G.P.S", "M. G. P. S", "MARINE GROWTH PREVENTION SYSTEM",
	"STEERING GEAR ROOM", "STEERING GEAR", "STEERI NG GEAR",
	"RUDDER", "SHAFT", "FOUNDATION", "FRAME", "STOCK", "CONSTRUCTION", "STERN",
	"HULL", "SHELL", "EXPANSION", "BEARING",
	"NAME", "CAUTION", "PLATE", "NAME & CAUTION PLATE", "NAME AND CAUTION PLATE",
	"INSTALLATION", "DOOR PLAN", "INSULATION PLAN", "CRANE", "LIFTING BEAM",
	"V/D", "V-D", "VENDOR DRAWING",
}

// scanKeywords is systemKeywords deduplicated and sorted longest-first,
// computed once at init for the keyword scan.
var scanKeywords = func() []string {
	seen := make(map[string]bool, len(systemKeywords))
	out := make([]string, 0, len(systemKeywords))
	for _, k := range systemKeywords {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()
