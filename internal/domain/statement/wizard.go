package statement

import (
	"errors"
	"fmt"
)

// WizardStep is the multi-step import flow the operator walks through.
type WizardStep int

const (
	StepSelectFile WizardStep = iota
	StepUploading
	StepReview
	StepConfirm
	StepDone
)

func (s WizardStep) String() string {
	switch s {
	case StepSelectFile:
		return "select-file"
	case StepUploading:
		return "uploading"
	case StepReview:
		return "review"
	case StepConfirm:
		return "confirm"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

var ErrWrongStep = errors.New("operation not allowed in current wizard step")

// Wizard holds the client-side state of one import run. It moves strictly
// forward except for Back, which returns from Confirm to Review.
type Wizard struct {
	step      WizardStep
	imp       *Import
	groups    []Group
	decisions []Decision
}

func NewWizard() *Wizard {
	return &Wizard{step: StepSelectFile}
}

func (w *Wizard) Step() WizardStep { return w.step }
func (w *Wizard) Import() *Import  { return w.imp }
func (w *Wizard) Groups() []Group  { return w.groups }

// BeginUpload transitions into the upload phase.
func (w *Wizard) BeginUpload() error {
	if w.step != StepSelectFile {
		return ErrWrongStep
	}
	w.step = StepUploading
	return nil
}

// UploadDone records the server's import handle and the consolidated groups
// for review.
func (w *Wizard) UploadDone(imp Import, groups []Group) error {
	if w.step != StepUploading {
		return ErrWrongStep
	}
	w.imp = &imp
	w.groups = groups
	w.decisions = make([]Decision, len(groups))
	for i := range w.decisions {
		w.decisions[i] = Decision{GroupIndex: i, Include: groups[i].Matched}
	}
	w.step = StepReview
	return nil
}

// UploadFailed returns to file selection; nothing to keep.
func (w *Wizard) UploadFailed() error {
	if w.step != StepUploading {
		return ErrWrongStep
	}
	w.imp = nil
	w.step = StepSelectFile
	return nil
}

// Decide records the operator's call on one group during review.
func (w *Wizard) Decide(d Decision) error {
	if w.step != StepReview {
		return ErrWrongStep
	}
	if d.GroupIndex < 0 || d.GroupIndex >= len(w.decisions) {
		return fmt.Errorf("group index %d out of range", d.GroupIndex)
	}
	w.decisions[d.GroupIndex] = d
	return nil
}

// Decisions returns a copy of the current decisions.
func (w *Wizard) Decisions() []Decision {
	out := make([]Decision, len(w.decisions))
	copy(out, w.decisions)
	return out
}

// Included returns the decisions marked for commit.
func (w *Wizard) Included() []Decision {
	var out []Decision
	for _, d := range w.decisions {
		if d.Include {
			out = append(out, d)
		}
	}
	return out
}

// ToConfirm moves from review to the confirmation step. At least one group
// must be included.
func (w *Wizard) ToConfirm() error {
	if w.step != StepReview {
		return ErrWrongStep
	}
	if len(w.Included()) == 0 {
		return errors.New("no groups selected for commit")
	}
	w.step = StepConfirm
	return nil
}

// Back returns from confirmation to review, decisions intact.
func (w *Wizard) Back() error {
	if w.step != StepConfirm {
		return ErrWrongStep
	}
	w.step = StepReview
	return nil
}

// CommitDone finishes the wizard.
func (w *Wizard) CommitDone() error {
	if w.step != StepConfirm {
		return ErrWrongStep
	}
	w.step = StepDone
	return nil
}

// CommitFailed returns to confirmation so the operator can retry or go back.
func (w *Wizard) CommitFailed() error {
	if w.step != StepConfirm {
		return ErrWrongStep
	}
	return nil
}
