// Package tasks is the asynchronous boundary of the gateway. Slow work
// (remote VM control, file uploads, out-of-band messaging) is enqueued on
// the broker by the webhook tier and executed later by a worker process,
// which delivers results back through the Slack API.
//
// Task identity on the wire is a string resolved by the broker, so the
// producer and the worker can be deployed as separate binaries. Both ends
// validate wire names against the Kind registry below so they cannot
// drift apart silently.
//
// Known gap: there is no idempotency key on dispatch. If the broker
// redelivers a task that crashed mid-execution, the user may receive
// duplicate messages. VM kinds get a single attempt for that reason.
package tasks

import (
	"fmt"
)

// Kind identifies a task type on both the producer and the worker side.
type Kind string

const (
	KindSendMessage   Kind = "slack:send_message"
	KindSendEphemeral Kind = "slack:send_ephemeral_message"
	KindSendBlocks    Kind = "slack:send_message_with_blocks"
	KindUploadFile    Kind = "slack:upload_file"

	KindStartVMs     Kind = "ovi:start_vms"
	KindStopVMs      Kind = "ovi:stop_vms"
	KindListVMs      Kind = "ovi:list_vms"
	KindRedeployVM   Kind = "ovi:redeploy_vm"
	KindGetSnapshots Kind = "ovi:get_redeploy_snapshots"
)

var allKinds = map[Kind]bool{
	KindSendMessage:   true,
	KindSendEphemeral: true,
	KindSendBlocks:    true,
	KindUploadFile:    true,
	KindStartVMs:      true,
	KindStopVMs:       true,
	KindListVMs:       true,
	KindRedeployVM:    true,
	KindGetSnapshots:  true,
}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is part of the registry.
func (k Kind) Valid() bool {
	return allKinds[k]
}

// IsVMKind reports whether the kind runs against the remote VM api. VM
// kinds deliver their raw output to the user and are not retried.
func (k Kind) IsVMKind() bool {
	switch k {
	case KindStartVMs, KindStopVMs, KindListVMs, KindRedeployVM, KindGetSnapshots:
		return true
	}
	return false
}

// ParseKind validates a wire task name against the registry.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("unknown task kind %q", name)
	}
	return k, nil
}
