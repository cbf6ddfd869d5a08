package deploy

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid"
)

// Phase is a step of the redeploy state machine.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseResolvingForDelete Phase = "resolving-for-delete"
	PhaseDeleting           Phase = "deleting"
	PhaseSettling           Phase = "settling"
	PhaseResolvingForCreate Phase = "resolving-for-create"
	PhaseCreating           Phase = "creating"
	PhaseDone               Phase = "done"
)

// ErrStrictStatus is returned by Result.CheckStatus when a delete or create request got a non-2xx answer.
var ErrStrictStatus = errors.New("remote API returned a non-2xx status")

// Result describes what a run did. Phase is the last phase entered, so a failed run
// reports where it stopped.
type Result struct {
	RunID        string
	StackURL     string
	DeleteIssued bool
	DeleteStatus int
	CreateIssued bool
	CreateStatus int
	Phase        Phase
	Duration     time.Duration
}

// CheckStatus returns ErrStrictStatus if any issued request got a status outside 2xx.
func (r *Result) CheckStatus() error {
	if r.DeleteIssued && !isSuccess(r.DeleteStatus) {
		return fmt.Errorf("%w: delete returned %d", ErrStrictStatus, r.DeleteStatus)
	}
	if r.CreateIssued && !isSuccess(r.CreateStatus) {
		return fmt.Errorf("%w: create returned %d", ErrStrictStatus, r.CreateStatus)
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// CreateRunID returns a new lexically sortable run ID.
func CreateRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
