package main

// Mode is the host UI mode. It is separate from the editor's Live/Exporting
// state: the host can be prompting for a filename while the editor is Live.
type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeProperty
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExport
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewDocument
	ConfirmOverwriteFile
)

// Kind is the closed set of element kinds.
type Kind string

const (
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindBox    Kind = "box"
	KindCircle Kind = "circle"
	KindImage  Kind = "image"
	KindInput  Kind = "input-mock"
)

var allKinds = []Kind{KindText, KindButton, KindBox, KindCircle, KindImage, KindInput}

func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// PageFormat is the output page format of an export.
type PageFormat string

const (
	FormatA4     PageFormat = "a4"
	FormatLetter PageFormat = "letter"
	FormatCustom PageFormat = "custom"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Direction is a z-order move.
type Direction int

const (
	Forward Direction = iota
	Backward
	ToFront
	ToBack
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case ToFront:
		return "front"
	case ToBack:
		return "back"
	default:
		return "unknown"
	}
}

const (
	minElementSize    = 10
	duplicateOffset   = 20
	spawnX            = 10
	spawnY            = 10
	defaultCanvasW    = 800
	defaultCanvasH    = 600
	defaultBackground = "#ffffff"
	documentVersion   = 1
)

// Zoom steps offered by the viewport, in percent.
var zoomSteps = []int{25, 50, 75, 100, 125, 150, 200, 300, 400}
