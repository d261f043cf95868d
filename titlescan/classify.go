package titlescan

import "strings"

// DocType is the coarse class of a scanned document.
type DocType string

const (
	DocTypeManual       DocType = "Machinery/System Manual"
	DocTypeCapacityPlan DocType = "Capacity Plan / Datasheet"
	DocTypeCertificate  DocType = "Certificate / Report"
	DocTypeDrawing      DocType = "Drawing"
	DocTypeUnknown      DocType = "Unknown"
)

// Classification buckets, checked in order; the first hit wins.
var (
	manualWords      = []string{"manual", "instruction", "handbook", "guide", "tmm", "operation manual", "maintenance manual"}
	capacityWords    = []string{"capacity plan", "tank capacity", "tank table", "sounding table", "deadweight scale"}
	certificateWords = []string{"certificate", "report", "test result", "approval", "inclining experiment", "sea trial", "test record"}
	drawingWords     = []string{"drawing", "diagram", "schematic", "blueprint", "arr't", "arrangment", "arrangement", "plan", "details of", "v/d", "v/dwg", "vendor drawing"}
	drawingSubjects  = []string{
		"equipment list", "v/v list", "valve list", "flowmeter", "plate type cooler", "centrifugal pump",
		"m.g.p.s", "prevention system", "name and caution plate",
		"door plan", "insulation plan", "installation of", "lifting beam", "crane",
		"air-con system", "provision refrigerating plant", "vendor drawing", "v/d of",
	}
	structureWords = []string{"structure", "construction", "body plan", "shell expansion", "deck and stringer", "bulkhead", "frames", "coamings", "fore body"}
)

// ClassifyDocType assigns a document to one of the five classes from its
// extracted text, file name and containing folder name. The inputs are
// normalized and lower-cased before matching, so the call never fails and
// tolerates empty arguments. A document that mentions "manual" anywhere never
// classifies as Drawing through the drawing or subject buckets.
func ClassifyDocType(text, filename, folderPath string) DocType {
	combined := strings.ToLower(NormalizeText(text) + " " + NormalizeText(filename) + " " + NormalizeText(folderBase(folderPath)))

	if containsAnyOf(combined, manualWords) {
		return DocTypeManual
	}
	if containsAnyOf(combined, capacityWords) {
		return DocTypeCapacityPlan
	}
	if containsAnyOf(combined, certificateWords) {
		return DocTypeCertificate
	}
	if !strings.Contains(combined, "manual") {
		if containsAnyOf(combined, drawingWords) || containsAnyOf(combined, drawingSubjects) {
			return DocTypeDrawing
		}
	}
	if containsAnyOf(combined, structureWords) {
		return DocTypeDrawing
	}
	return DocTypeUnknown
}
