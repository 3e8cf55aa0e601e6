package tasks

import (
	"encoding/json"
)

// Delivery names the Slack user and channel a task reports back to. Every
// payload embeds it: even fire-and-forget messages carry the requesting
// user so failures can be attributed when an admin gets paged.
type Delivery struct {
	User    string `json:"user"`
	Channel string `json:"channel"`
}

// DeliveryInfo implements Payload for every embedding type.
func (d Delivery) DeliveryInfo() Delivery {
	return d
}

// Payload is anything the dispatcher can put on the broker.
type Payload interface {
	DeliveryInfo() Delivery
}

type SendMessagePayload struct {
	Delivery
	Message string `json:"message"`
}

type SendEphemeralPayload struct {
	Delivery
	Message string `json:"message"`
}

// SendBlocksPayload carries Block Kit blocks as raw JSON so the producer
// does not need the worker's view of the block types.
type SendBlocksPayload struct {
	Delivery
	Blocks json.RawMessage `json:"blocks"`
}

type UploadFilePayload struct {
	Delivery
	Filename string `json:"filename"`
	Comment  string `json:"comment"`
	Content  []byte `json:"content"`
}

// VMActionPayload starts or stops a set of machines on behalf of a user.
// Credentials ride in the payload because the worker process has no
// database access.
type VMActionPayload struct {
	Delivery
	VMIDs    []string `json:"vm_ids"`
	OviUser  string   `json:"ovi_user"`
	OviToken string   `json:"ovi_token"`
}

type ListVMsPayload struct {
	Delivery
	OviUser  string `json:"ovi_user"`
	OviToken string `json:"ovi_token"`
}

type RedeployVMPayload struct {
	Delivery
	VMID       string `json:"vm_id"`
	SnapshotID string `json:"snapshot_id"`
	OviUser    string `json:"ovi_user"`
	OviToken   string `json:"ovi_token"`
}

type GetSnapshotsPayload struct {
	Delivery
	OviUser  string `json:"ovi_user"`
	OviToken string `json:"ovi_token"`
}
