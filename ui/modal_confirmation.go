package ui

type ConfirmationState struct {
	Active  bool
	Title   string
	Message string
}

func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	return RenderThreeSectionModal(
		state.Title,
		centeredLines(state.Message, 60, width),
		FormatFooter("y", "Yes", "n", "No"),
		ModalTypeWarning,
		60,
		width,
		height,
	)
}

func clearHistoryConfirmation() ConfirmationState {
	return ConfirmationState{
		Active:  true,
		Title:   "Clear Chat History",
		Message: "Are you sure you want to clear all chat history?\nThis cannot be undone.",
	}
}
