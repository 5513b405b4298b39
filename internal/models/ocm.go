package models

// Raw Open Charge Map POI records. Every nested structure is optional, so all
// of them are pointers or nil-able slices.

type OCMCountry struct {
	ISOCode *string `json:"ISOCode"`
	Title   *string `json:"Title"`
}

type OCMAddressInfo struct {
	Title        *string     `json:"Title"`
	AddressLine1 *string     `json:"AddressLine1"`
	AddressLine2 *string     `json:"AddressLine2"`
	Town         *string     `json:"Town"`
	Postcode     *string     `json:"Postcode"`
	Country      *OCMCountry `json:"Country"`
	Latitude     *float64    `json:"Latitude"`
	Longitude    *float64    `json:"Longitude"`
}

type OCMConnection struct {
	ID            *int64   `json:"ID"`
	ConnectionID  *int64   `json:"ConnectionTypeID"`
	PowerKW       *float64 `json:"PowerKW"`
	CurrentTypeID *int     `json:"CurrentTypeID"`
	Quantity      *int     `json:"Quantity"`
}

type OCMOperatorInfo struct {
	ID     *int64  `json:"ID"`
	Title  *string `json:"Title"`
	WebURL *string `json:"WebsiteURL"`
}

type OCMRecord struct {
	ID           *int64           `json:"ID"`
	UUID         *string          `json:"UUID"`
	AddressInfo  *OCMAddressInfo  `json:"AddressInfo"`
	Connections  []OCMConnection  `json:"Connections"`
	OperatorInfo *OCMOperatorInfo `json:"OperatorInfo"`
}
