package whm

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// DomainType classifies a domain within its account.
type DomainType string

const (
	TypeMain      DomainType = "principal"
	TypeSubdomain DomainType = "subdomain"
	TypeAddon     DomainType = "addon"
)

// DomainRecord is one normalised domain returned by the panel.
type DomainRecord struct {
	Domain     string     `json:"domain"`
	Username   string     `json:"username"`
	Status     string     `json:"status"`
	Type       DomainType `json:"type"`
	MainDomain string     `json:"mainDomain"`
	IP         string     `json:"ip"`
	Addon      bool       `json:"addon"`
	Subdomain  bool       `json:"subdomain"`
}

// Account aggregates the domains owned by one panel user.
type Account struct {
	Username  string   `json:"username"`
	Domains   []string `json:"domains"`
	Suspended bool     `json:"suspended"`
}

// DomainInfo is the result of a domain listing.
type DomainInfo struct {
	Domains  []DomainRecord `json:"domains"`
	Accounts []Account      `json:"accounts"`
}

// rawDomain mirrors the loosely typed items of get_domain_info.
type rawDomain struct {
	Domain     string   `json:"domain"`
	User       string   `json:"user"`
	Username   string   `json:"username"`
	Suspended  flexBool `json:"suspended"`
	MainDomain string   `json:"main_domain"`
	IP         string   `json:"ip"`
	Addon      flexBool `json:"addon"`
	Type       string   `json:"type"`
	SubDomain  flexBool `json:"sub_domain"`
}

type domainInfoResponse struct {
	Data json.RawMessage `json:"data"`
}

// flexBool accepts true/false, 0/1 and "0"/"1" style values.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(string(bytes.TrimSpace(data))), `"`)
	switch s {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

func (r rawDomain) record() DomainRecord {
	username := r.User
	if username == "" {
		username = r.Username
	}
	if username == "" {
		username = "unknown"
	}

	status := StatusActive
	if r.Suspended {
		status = StatusSuspended
	}

	mainDomain := r.MainDomain
	if mainDomain == "" {
		mainDomain = r.Domain
	}

	ip := r.IP
	if ip == "" {
		ip = "N/A"
	}

	return DomainRecord{
		Domain:     r.Domain,
		Username:   username,
		Status:     status,
		Type:       r.domainType(),
		MainDomain: mainDomain,
		IP:         ip,
		Addon:      bool(r.Addon),
		Subdomain:  r.Type == "sub" || bool(r.SubDomain),
	}
}

func (r rawDomain) domainType() DomainType {
	if r.Addon {
		return TypeAddon
	}
	if r.Type == "sub" || r.SubDomain {
		return TypeSubdomain
	}
	return TypeMain
}

func buildDomainInfo(items []rawDomain) *DomainInfo {
	info := &DomainInfo{Domains: []DomainRecord{}, Accounts: []Account{}}
	index := make(map[string]int)

	for _, item := range items {
		if item.Domain == "" {
			continue
		}

		rec := item.record()
		info.Domains = append(info.Domains, rec)

		i, ok := index[rec.Username]
		if !ok {
			i = len(info.Accounts)
			index[rec.Username] = i
			info.Accounts = append(info.Accounts, Account{Username: rec.Username})
		}
		info.Accounts[i].Domains = append(info.Accounts[i].Domains, rec.Domain)
	}

	return info
}
