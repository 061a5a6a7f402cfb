package model

// AccountTypeBusiness is the type marker the gateway uses for business accounts.
const AccountTypeBusiness = "b"

// Account is one entry of the gateway's account list.
type Account struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

func (a Account) IsBusiness() bool { return a.Type == AccountTypeBusiness }
