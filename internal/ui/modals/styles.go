package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Style variables - these will be set by the parent ui package via SetStyles
var (
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
	ColorInfo        color.Color
)

// Modal sizes
var (
	ModalWidth          = 60
	ModalWidthWide      = 80
	HelpModalMaxVisible = 16
)

// SetStyles sets the style variables from the parent ui package.
// This must be called before rendering any modals.
func SetStyles(
	modalTitle, modalHelp lipgloss.Style,
	primary, secondary, text, textMuted, textInverse, warning, errColor, success, info color.Color,
) {
	ModalTitleStyle = modalTitle
	ModalHelpStyle = modalHelp

	ColorPrimary = primary
	ColorSecondary = secondary
	ColorText = text
	ColorTextMuted = textMuted
	ColorTextInverse = textInverse
	ColorWarning = warning
	ColorError = errColor
	ColorSuccess = success
	ColorInfo = info
}
