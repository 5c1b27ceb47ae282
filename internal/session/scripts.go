package session

import (
	"encoding/json"
	"strings"
)

const blurActiveElementScript = `if (document.activeElement && document.activeElement.tagName !== 'BODY') {
	document.activeElement.blur();
}`

// Result values of the focus script.
const (
	focusScriptFocused = "focused"
	focusScriptMissing = "missing"
)

// focusInputScript focuses the first element matching selectors.
func focusInputScript(selectors []string) string {
	quoted, _ := json.Marshal(strings.Join(selectors, ", "))
	return `(() => {
	const input = document.querySelector(` + string(quoted) + `);
	if (!input) {
		return "` + focusScriptMissing + `";
	}
	input.focus();
	input.click();
	return "` + focusScriptFocused + `";
})()`
}
