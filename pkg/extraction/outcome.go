package extraction

import "fmt"

// Outcome is what the extraction service answered: either Extracted or
// Rejected. Transport and contract failures are returned as errors instead.
type Outcome interface {
	outcome()
}

// Extracted carries a successful, contract-valid result.
type Extracted struct {
	Result RawResult
}

// Rejected carries the message of an {"error": "..."} response.
type Rejected struct {
	Message string
}

func (Extracted) outcome() {}
func (Rejected) outcome()  {}

// TransportError covers network failures and unreadable or non-JSON bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContractError means the body was JSON but not a shape the service promises.
type ContractError struct {
	Reason string
	Err    error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid extraction response: %s: %v", e.Reason, e.Err)
	}
	return "invalid extraction response: " + e.Reason
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
