// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package command

import (
	"fmt"
	"strings"
)

// Tools doc2pages shells out to.
const (
	ToolEbookConvert = "ebook-convert"
	ToolUnar         = "unar"
	ToolGit          = "git"
	ToolHub          = "hub"
)

// Requirements lists every tool that must be on PATH before a run starts.
var Requirements = []string{ToolEbookConvert, ToolUnar, ToolGit, ToolHub}

// MissingRequirementError lists the external tools absent from PATH.
type MissingRequirementError struct {
	Missing []string
}

func (e *MissingRequirementError) Error() string {
	return fmt.Sprintf("please install %s", strings.Join(e.Missing, " "))
}

// CheckRequirements looks every name up on PATH and reports all missing
// tools at once, in the order given.
func CheckRequirements(r Runner, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := r.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingRequirementError{Missing: missing}
	}
	return nil
}
