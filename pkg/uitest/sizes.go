package uitest

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

const (
	StandardWidth  = 120
	StandardHeight = 40
)

// Standard fits a page of the default size with room for help.
var Standard = Size{Width: StandardWidth, Height: StandardHeight}
