package models

// Kind identifies one of the three resource pools. Each kind carries its own
// attributes and its own interval overlap rule.
type Kind string

const (
	KindRoom    Kind = "room"
	KindAsset   Kind = "asset"
	KindVehicle Kind = "vehicle"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRoom, KindAsset, KindVehicle:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Label returns the human-facing tag used in exports.
func (k Kind) Label() string {
	switch k {
	case KindRoom:
		return "Ruangan"
	case KindAsset:
		return "Aset"
	case KindVehicle:
		return "Kendaraan"
	}
	return string(k)
}

// Kinds lists all resource kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindRoom, KindAsset, KindVehicle}
}
