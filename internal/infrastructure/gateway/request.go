package gateway

import "github.com/dmlogistics/portal/internal/core/ports"

type partyRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// createRequest is the body of the backend's create-shipment call.
type createRequest struct {
	Sender             partyRequest `json:"sender"`
	Receiver           partyRequest `json:"receiver"`
	PackageType        string       `json:"package_type"`
	Weight             float64      `json:"weight"`
	WeightUnit         string       `json:"weight_unit,omitempty"`
	Cost               float64      `json:"cost"`
	OriginCountry      string       `json:"origin_country,omitempty"`
	DestinationCountry string       `json:"destination_country,omitempty"`
	EstimatedDelivery  string       `json:"estimated_delivery,omitempty"`
}

type statusRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Coordinates string `json:"coordinates,omitempty"`
	Note        string `json:"note,omitempty"`
}

func createRequestFrom(in ports.CreateShipmentInput) createRequest {
	return createRequest{
		Sender:             partyRequest(in.Sender),
		Receiver:           partyRequest(in.Receiver),
		PackageType:        in.PackageType,
		Weight:             in.Weight,
		WeightUnit:         in.WeightUnit,
		Cost:               in.Cost,
		OriginCountry:      in.OriginCountry,
		DestinationCountry: in.DestinationCountry,
		EstimatedDelivery:  in.EstimatedDelivery,
	}
}
