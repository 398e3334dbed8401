package domain

import (
	"regexp"
	"strings"
	"time"
)

type PhoneStatus string

const (
	PhoneStatusAvailable PhoneStatus = "available"
	PhoneStatusAssigned  PhoneStatus = "assigned"
	PhoneStatusActive    PhoneStatus = "active"
)

// Column widths of the Phones table, counted in characters.
const (
	MaxPhoneModelLength = 64
	MaxAssignedToLength = 255
	MaxExtensionLength  = 32
)

type Phone struct {
	ID                string
	MacAddress        string
	Model             string
	OrderID           *string
	AssignedTo        *string
	AssignedExtension *string
	Status            PhoneStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

// NormalizeMAC returns the uppercase colon-separated form of a six-octet
// hardware address. Colon and hyphen separators are accepted on input.
func NormalizeMAC(raw string) (string, bool) {
	mac := strings.TrimSpace(raw)
	if !macPattern.MatchString(mac) {
		return "", false
	}
	return strings.ToUpper(strings.ReplaceAll(mac, "-", ":")), true
}

var phoneNext = map[PhoneStatus]map[PhoneStatus]bool{
	PhoneStatusAvailable: {PhoneStatusAssigned: true},
	PhoneStatusAssigned:  {PhoneStatusAvailable: true, PhoneStatusActive: true},
	PhoneStatusActive:    {PhoneStatusAssigned: true, PhoneStatusAvailable: true},
}

// CanTransitionPhone allows staying in the same status.
func CanTransitionPhone(from, to PhoneStatus) bool {
	if from == to {
		return true
	}
	return phoneNext[from][to]
}

func ValidPhoneStatus(s PhoneStatus) bool {
	_, ok := phoneNext[s]
	return ok
}
