package gateway

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

var errMalformedBody = errors.New("malformed JSON body")

// The backend is inconsistent about key casing and nesting, so every field is
// looked up through a list of gjson paths and the first non-empty one wins.
var (
	keyTrackingNumber    = []string{"tracking_number", "trackingNumber", "tracking_id", "trackingId"}
	keyStatus            = []string{"status", "current_status", "currentStatus"}
	keyCurrentLocation   = []string{"current_location", "currentLocation"}
	keySenderName        = []string{"sender_name", "senderName", "sender.name"}
	keySenderEmail       = []string{"sender_email", "senderEmail", "sender.email"}
	keySenderPhone       = []string{"sender_phone", "senderPhone", "sender.phone"}
	keySenderAddress     = []string{"sender_address", "senderAddress", "sender.address"}
	keyReceiverName      = []string{"receiver_name", "receiverName", "receiver.name", "recipient_name"}
	keyReceiverEmail     = []string{"receiver_email", "receiverEmail", "receiver.email"}
	keyReceiverPhone     = []string{"receiver_phone", "receiverPhone", "receiver.phone"}
	keyReceiverAddress   = []string{"receiver_address", "receiverAddress", "receiver.address", "destination_address"}
	keyPackageType       = []string{"package_type", "packageType", "package.type", "service_type"}
	keyWeight            = []string{"weight", "package_weight", "package.weight"}
	keyWeightUnit        = []string{"weight_unit", "weightUnit", "package.weight_unit"}
	keyCost              = []string{"cost", "shipping_cost", "shippingCost", "price"}
	keyCreatedAt         = []string{"created_at", "createdAt", "registered_at", "registeredAt"}
	keyEstimatedDelivery = []string{"estimated_delivery", "estimatedDelivery", "estimated_delivery_date"}
	keyOriginCountry     = []string{"origin_country", "originCountry"}
	keyDestCountry       = []string{"destination_country", "destinationCountry"}
	keyPDFURL            = []string{"pdf_url", "pdfUrl"}
	keyQRCodeURL         = []string{"qr_code_url", "qrCodeUrl", "qr_code"}
	keyTimestamp         = []string{"timestamp", "created_at", "createdAt", "updated_at"}
	keyNote              = []string{"note", "notes", "comment"}
	keyError             = []string{"error", "message"}
)

func parseRoot(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errMalformedBody
	}
	return gjson.ParseBytes(body), nil
}

// str returns the first non-empty trimmed string found under keys.
func str(r gjson.Result, keys []string) string {
	for _, k := range keys {
		v := r.Get(k)
		if !v.Exists() || v.Type == gjson.Null || v.IsObject() || v.IsArray() {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// num returns the first numeric value under keys. Numeric strings are
// accepted; anything else yields 0.
func num(r gjson.Result, keys []string) float64 {
	for _, k := range keys {
		v := r.Get(k)
		switch v.Type {
		case gjson.Number:
			return v.Float()
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				if f := gjson.Parse(s); f.Type == gjson.Number {
					return f.Float()
				}
			}
		}
	}
	return 0
}

// shipmentObject picks the shipment from {shipment: {...}}, {data: {...}} or
// the bare response object, in that order.
func shipmentObject(root gjson.Result) (gjson.Result, bool) {
	for _, path := range []string{"shipment", "data", "@this"} {
		if v := root.Get(path); v.IsObject() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func decodeSnapshot(body []byte) (*ports.ShipmentSnapshot, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	obj, ok := shipmentObject(root)
	if !ok {
		return nil, errMalformedBody
	}
	if root.Get("success").Exists() && !root.Get("success").Bool() && !root.Get("shipment").IsObject() && !root.Get("data").IsObject() {
		return nil, errors.New(firstNonEmpty(str(root, keyError), "backend reported failure"))
	}

	snap := &ports.ShipmentSnapshot{
		TrackingNumber:    str(obj, keyTrackingNumber),
		Status:            str(obj, keyStatus),
		CurrentLocation:   str(obj, keyCurrentLocation),
		SenderName:        str(obj, keySenderName),
		SenderAddress:     str(obj, keySenderAddress),
		ReceiverName:      str(obj, keyReceiverName),
		ReceiverAddress:   str(obj, keyReceiverAddress),
		PackageType:       str(obj, keyPackageType),
		EstimatedDelivery: str(obj, keyEstimatedDelivery),
		CreatedAt:         str(obj, keyCreatedAt),
	}
	// {"shipment":null}, {"data":null} and {} fall through to @this and
	// carry nothing; they describe no shipment.
	if *snap == (ports.ShipmentSnapshot{}) {
		return nil, errMalformedBody
	}
	return snap, nil
}

func decodeStatus(body []byte) (*ports.StatusPayload, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	if !root.IsObject() {
		return nil, errMalformedBody
	}

	p := &ports.StatusPayload{
		Success:         root.Get("success").Bool(),
		Status:          str(root, keyStatus),
		Location:        str(root, []string{"location"}),
		CurrentLocation: str(root, keyCurrentLocation),
		Timestamp:       str(root, keyTimestamp),
	}

	history := root.Get("history")
	if !history.IsArray() {
		history = root.Get("data.history")
	}
	if history.IsArray() {
		p.HasHistory = true
		history.ForEach(func(_, entry gjson.Result) bool {
			if entry.IsObject() {
				p.History = append(p.History, decodeLogEntry(entry))
			}
			return true
		})
	}
	return p, nil
}

func decodeLogEntry(e gjson.Result) domain.StatusLogEntry {
	return domain.StatusLogEntry{
		Status:      str(e, keyStatus),
		Timestamp:   entryTimestamp(e),
		Location:    str(e, []string{"location", "location_name"}),
		Coordinates: coordinates(e),
		Note:        str(e, keyNote),
	}
}

// entryTimestamp prefers a single timestamp field and otherwise joins the
// separate date and time fields some backends send.
func entryTimestamp(e gjson.Result) string {
	if ts := str(e, keyTimestamp); ts != "" {
		return ts
	}
	date := str(e, []string{"date"})
	clock := str(e, []string{"time"})
	return strings.TrimSpace(date + " " + clock)
}

// coordinates accepts a free-text value or a {lat, lng} object.
func coordinates(e gjson.Result) string {
	v := e.Get("coordinates")
	if v.IsObject() {
		lat := firstNonEmpty(v.Get("lat").String(), v.Get("latitude").String())
		lng := firstNonEmpty(v.Get("lng").String(), v.Get("lon").String(), v.Get("longitude").String())
		if lat == "" || lng == "" {
			return ""
		}
		return lat + "," + lng
	}
	return str(e, []string{"coordinates", "coords"})
}

// shipmentArray finds the listing in {shipments: [...]}, {data: [...]} or a
// bare array.
func shipmentArray(root gjson.Result) (gjson.Result, error) {
	if root.Get("success").Exists() && !root.Get("success").Bool() {
		return gjson.Result{}, errors.New(firstNonEmpty(str(root, keyError), "backend reported failure"))
	}
	for _, path := range []string{"shipments", "data", "data.shipments", "@this"} {
		if v := root.Get(path); v.IsArray() {
			return v, nil
		}
	}
	return gjson.Result{}, errMalformedBody
}

func decodeFlatList(body []byte) ([]ports.FlatShipment, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	arr, err := shipmentArray(root)
	if err != nil {
		return nil, err
	}

	out := make([]ports.FlatShipment, 0, len(arr.Array()))
	arr.ForEach(func(_, s gjson.Result) bool {
		if !s.IsObject() {
			return true
		}
		out = append(out, ports.FlatShipment{
			TrackingNumber:     str(s, keyTrackingNumber),
			SenderName:         str(s, keySenderName),
			SenderEmail:        str(s, keySenderEmail),
			SenderPhone:        str(s, keySenderPhone),
			SenderAddress:      str(s, keySenderAddress),
			ReceiverName:       str(s, keyReceiverName),
			ReceiverEmail:      str(s, keyReceiverEmail),
			ReceiverPhone:      str(s, keyReceiverPhone),
			ReceiverAddress:    str(s, keyReceiverAddress),
			PackageType:        str(s, keyPackageType),
			Weight:             num(s, keyWeight),
			WeightUnit:         str(s, keyWeightUnit),
			Cost:               num(s, keyCost),
			Status:             str(s, keyStatus),
			CreatedAt:          str(s, keyCreatedAt),
			EstimatedDelivery:  str(s, keyEstimatedDelivery),
			OriginCountry:      str(s, keyOriginCountry),
			DestinationCountry: str(s, keyDestCountry),
			PDFURL:             str(s, keyPDFURL),
			QRCodeURL:          str(s, keyQRCodeURL),
			CurrentLocation:    str(s, keyCurrentLocation),
		})
		return true
	})
	return out, nil
}

func decodeNestedList(body []byte) ([]ports.NestedShipment, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	arr, err := shipmentArray(root)
	if err != nil {
		return nil, err
	}

	out := make([]ports.NestedShipment, 0, len(arr.Array()))
	arr.ForEach(func(_, s gjson.Result) bool {
		if !s.IsObject() {
			return true
		}
		out = append(out, ports.NestedShipment{
			TrackingNumber:     str(s, keyTrackingNumber),
			Sender:             decodeParty(s.Get("sender")),
			Receiver:           decodeParty(s.Get("receiver")),
			PackageType:        str(s, keyPackageType),
			Weight:             num(s, keyWeight),
			WeightUnit:         str(s, keyWeightUnit),
			Cost:               num(s, keyCost),
			Status:             str(s, keyStatus),
			CreatedAt:          str(s, keyCreatedAt),
			EstimatedDelivery:  str(s, keyEstimatedDelivery),
			OriginCountry:      str(s, keyOriginCountry),
			DestinationCountry: str(s, keyDestCountry),
			PDFURL:             str(s, keyPDFURL),
			QRCodeURL:          str(s, keyQRCodeURL),
			CurrentLocation:    str(s, keyCurrentLocation),
		})
		return true
	})
	return out, nil
}

func decodeParty(p gjson.Result) ports.PartyInput {
	if !p.IsObject() {
		return ports.PartyInput{}
	}
	return ports.PartyInput{
		Name:    str(p, []string{"name", "full_name", "fullName"}),
		Email:   str(p, []string{"email"}),
		Phone:   str(p, []string{"phone", "phone_number", "phoneNumber"}),
		Address: str(p, []string{"address"}),
	}
}

// decodeMutation reads the {success, error} envelope. A 2xx body without a
// success flag counts as success.
func decodeMutation(body []byte, statusOK bool) (*ports.MutationResult, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return &ports.MutationResult{Success: statusOK}, nil
	}
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}

	res := &ports.MutationResult{Success: statusOK}
	if v := root.Get("success"); v.Exists() {
		res.Success = v.Bool()
	}
	res.Error = str(root, keyError)
	if res.Success {
		res.Error = ""
	} else if res.Error == "" {
		res.Error = "request rejected by backend"
	}
	res.TrackingNumber = firstNonEmpty(
		str(root, keyTrackingNumber),
		str(root, []string{"shipment.tracking_number", "shipment.trackingNumber", "data.tracking_number"}),
	)
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
