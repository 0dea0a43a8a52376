package model

// Device is created fresh per ticket and never reused across tickets.
type Device struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customer_id"`
	Type        string `json:"type"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	SerialIMEI  string `json:"serial_imei,omitempty"`
	Color       string `json:"color,omitempty"`
	Accessories string `json:"accessories,omitempty"`
}

// Label is the human description used in notifications, e.g. "Apple iPhone 13".
func (d Device) Label() string {
	return d.Brand + " " + d.Model
}
