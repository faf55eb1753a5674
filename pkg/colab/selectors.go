package colab

// Selectors for the notebook UI. They change whenever the site's markup
// does; keep them together.
const (
	selDocName        = "#doc-name"
	selAddCode        = "#toolbar-add-code"
	selCell           = ".cell"
	selEditor         = ".monaco-editor"
	selTextarea       = "textarea"
	selMainContent    = ".main-content"
	selRunButton      = "colab-run-button"
	selRunExecution   = ".cell-execution"
	selRunStatus      = "#status"
	selOutput         = ".output"
	selOutputFrame    = "iframe"
	selOutputBody     = "#output-body"
	selStaticRenderer = "colab-static-output-renderer"

	selFields         = "colab-form-input,colab-form-dropdown"
	selFieldName      = ".formview-namelabel"
	selPaperInput     = "paper-input"
	selInput          = "input"
	selSelect         = "select"
	selOption         = "option"
	selPaperItem      = "paper-item"
	selPaperIconBtn   = "paper-icon-button"
	tagFormInput      = "colab-form-input"
	tagFormDropdown   = "colab-form-dropdown"
	inputTypeCheckbox = "checkbox"

	selRuntimeMenuButton = "#runtime-menu-button"
	selRuntimeMenu       = "#runtime-menu"
	selFileMenuButton    = "#file-menu-button"
	selFileMenu          = "#file-menu"
	selRestartCommand    = `div[command="restart"]`
	selOpenCommand       = `div[command="open"]`

	selDialog       = "paper-dialog"
	selDialogText   = "div"
	selDialogButton = "paper-button"
	selDialogOK     = "#ok"
	selDismiss      = ".dismiss"

	attrAriaDisabled = "aria-disabled"
	attrValue        = "value"
	attrType         = "type"

	// markCellsJS remembers the cells on the page before an insert
	markCellsJS = "sel => { window.__clayKnownCells = new Set(document.querySelectorAll(sel)); }"

	// newCellIndexJS returns the index of the first cell added since
	// markCellsJS ran, -1 when there is none yet
	newCellIndexJS = `sel => {
		const known = window.__clayKnownCells || new Set();
		return [...document.querySelectorAll(sel)].findIndex(e => !known.has(e));
	}`

	// documentBaseJS returns the base URL of the document holding an element
	documentBaseJS = "e => e.ownerDocument.baseURI"

	// createSuffix appended to the base URL opens a new notebook
	createSuffix = "#create=true"
)
