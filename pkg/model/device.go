package model

// Device is a Vinli dongle.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ChipID string `json:"chipId"`
	Icon   string `json:"icon,omitempty"`
	Links  Links  `json:"links,omitempty"`
}

// Vehicle is a vehicle a device has been plugged into.
type Vehicle struct {
	ID    string `json:"id"`
	VIN   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
	Trim  string `json:"trim,omitempty"`
	Name  string `json:"name,omitempty"`
	Links Links  `json:"links,omitempty"`
}
