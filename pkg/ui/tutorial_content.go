package ui

import (
	"fmt"

	"github.com/oarsman/skiff/pkg/tutorial"
)

// stepBody returns the markdown detail for a step. editorLabel personalizes
// the editor-dependent steps; it may be empty.
func stepBody(step tutorial.Step, editorLabel string) string {
	switch step {
	case tutorial.StepPickEditor:
		if editorLabel != "" {
			return fmt.Sprintf(pickEditorFoundContent, editorLabel)
		}
		return pickEditorContent
	case tutorial.StepCreateBranch:
		return createBranchContent
	case tutorial.StepEditFile:
		return editFileContent
	case tutorial.StepMakeCommit:
		return makeCommitContent
	case tutorial.StepPushBranch:
		return pushBranchContent
	case tutorial.StepOpenPullRequest:
		return openPullRequestContent
	default:
		return ""
	}
}

const pickEditorContent = `A text editor is where you'll actually change code.
Install one of the usual suspects — VS Code, Sublime, Vim — and skiff will
pick it up automatically on the next step check.

Already have one that isn't detected? Set ` + "`external_editor`" + ` in
` + "`~/.config/skiff/config.yaml`" + `, or export ` + "`$EDITOR`" + `.`

const pickEditorFoundContent = `Found **%s** on this machine — you're set.
This step completes on its own; nothing else to do here.`

const createBranchContent = `Branches let you work on changes without touching
the default branch.

` + "```bash\ngit switch -c my-first-branch\n```" + `

skiff notices the new branch as soon as it's checked out.`

const editFileContent = `Open any file in the repository and make a change —
a line in the README is the classic choice.

The step completes when the working tree differs from the last commit.`

const makeCommitContent = `A commit records your change in the branch history.

` + "```bash\ngit add -A\ngit commit -m \"My first commit\"\n```" + `

Keep the message short and in the imperative: what does this commit *do*?`

const pushBranchContent = `Publishing uploads your branch so others (and the
hosting service) can see it.

` + "```bash\ngit push -u origin my-first-branch\n```" + `

The ` + "`-u`" + ` sets the upstream so plain ` + "`git push`" + ` works from now on.`

const openPullRequestContent = `A pull request proposes your branch for review
and merging.

Press **p** to open the compare page in your browser — the URL also lands on
your clipboard in case the browser doesn't come up.`
