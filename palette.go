package deckcanvas

// Default palette used by the built-in widgets.
const (
	ColorPrimary   = "#FF6B35"
	ColorSecondary = "#F7931E"
	ColorAccent    = "#FFB627"

	ColorBackground    = "#1A1110"
	ColorSurface       = "#4A4543"
	ColorTextPrimary   = "#FFF8F0"
	ColorTextSecondary = "#CCC2BF"

	ColorSuccess = "#4CAF50"
	ColorWarning = "#FF9800"
	ColorDanger  = "#F44336"
	ColorInfo    = "#2196F3"

	ColorAudioLow  = "#4CAF50"
	ColorAudioMid  = "#FFB627"
	ColorAudioHigh = "#FF6B35"
	ColorAudioPeak = "#F44336"

	ColorBlack = "#000000"
	ColorWhite = "#FFFFFF"
)
