package models

import (
	"encoding/json"
	"fmt"
)

// TransactionStatus is the lifecycle state of a bridging transaction as
// reported by the oracle. Values travel as plain strings.
type TransactionStatus string

const (
	StatusPending                      TransactionStatus = "Pending"
	StatusDiscoveredOnSource           TransactionStatus = "DiscoveredOnSource"
	StatusSubmittedToBridge            TransactionStatus = "SubmittedToBridge"
	StatusIncludedInBatch              TransactionStatus = "IncludedInBatch"
	StatusSubmittedToDestination       TransactionStatus = "SubmittedToDestination"
	StatusFailedToExecuteOnDestination TransactionStatus = "FailedToExecuteOnDestination"
	StatusExecutedOnDestination        TransactionStatus = "ExecutedOnDestination"
	StatusInvalidRequest               TransactionStatus = "InvalidRequest"
)

var allStatuses = map[TransactionStatus]bool{
	StatusPending:                      false,
	StatusDiscoveredOnSource:           false,
	StatusSubmittedToBridge:            false,
	StatusIncludedInBatch:              false,
	StatusSubmittedToDestination:       false,
	StatusFailedToExecuteOnDestination: false,
	StatusExecutedOnDestination:        true,
	StatusInvalidRequest:               true,
}

// TerminalStatuses are never polled again once reached.
var TerminalStatuses = []TransactionStatus{StatusInvalidRequest, StatusExecutedOnDestination}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	status := TransactionStatus(s)
	if _, ok := allStatuses[status]; !ok {
		return "", fmt.Errorf("unknown transaction status: %q", s)
	}
	return status, nil
}

func (s TransactionStatus) IsValid() bool {
	_, ok := allStatuses[s]
	return ok
}

func (s TransactionStatus) IsTerminal() bool {
	return allStatuses[s]
}

func (s TransactionStatus) String() string {
	return string(s)
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTransactionStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
