package models

import (
	"strings"
	"time"

	"github.com/Ambro17/slacker/core"
)

// VMOwnership is a vm owned by a user and named by an alias. The alias is
// unique per user, the same vm may be owned by many users.
type VMOwnership struct {
	UserID    string    `db:"user_id"    json:"user_id"`
	VMID      string    `db:"vm_id"      json:"vm_id"`
	Alias     string    `db:"alias"      json:"alias"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ParseVMsInfo reads an alias -> vm id map from dialog input, one
// `alias=id` pair per line.
//
// Example:
//
//	console=5kyq3bdcnl6sbnsv9t6q
//	sensor=wwt6adcuow78sj9hj8hi
func ParseVMsInfo(text string) (map[string]string, error) {
	vms := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		alias, vmID, found := strings.Cut(line, "=")
		alias, vmID = strings.TrimSpace(alias), strings.TrimSpace(vmID)
		if !found || alias == "" || vmID == "" {
			return nil, core.NewDomainError(core.KindBadUsage, "bad vms format on line %q", line)
		}
		vms[alias] = vmID
	}
	if len(vms) == 0 {
		return nil, core.NewDomainError(core.KindBadUsage, "no vms found on input")
	}
	return vms, nil
}
