// Package binary encodes organisations for the local dataset cache.
// Coordinates are packed into uint32 against a fixed factor, which keeps
// sub-centimeter precision and varint-friendly values.
package binary

import (
	"github.com/gogo/protobuf/proto"

	"github.com/socialekaart/sokaart/org"
)

const coordFactor float64 = 11930464.7083 // ((2<<31)-1)/360.0

func CoordToInt(coord float64) uint32 {
	return uint32((coord + 180.0) * coordFactor)
}

func IntToCoord(coord uint32) float64 {
	return float64(coord)/coordFactor - 180.0
}

// Organisation is the wire form of org.Organisation. The id is the cache
// key and not repeated in the value.
type Organisation struct {
	Name        string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Pc6         string `protobuf:"bytes,2,opt,name=pc6,proto3" json:"pc6,omitempty"`
	Category    string `protobuf:"bytes,3,opt,name=category,proto3" json:"category,omitempty"`
	RawCategory string `protobuf:"bytes,4,opt,name=raw_category,json=rawCategory,proto3" json:"raw_category,omitempty"`
	Stadsdeel   string `protobuf:"bytes,5,opt,name=stadsdeel,proto3" json:"stadsdeel,omitempty"`
	Wijk        string `protobuf:"bytes,6,opt,name=wijk,proto3" json:"wijk,omitempty"`
	Buurt       string `protobuf:"bytes,7,opt,name=buurt,proto3" json:"buurt,omitempty"`
	Lat         uint32 `protobuf:"varint,8,opt,name=lat,proto3" json:"lat,omitempty"`
	Long        uint32 `protobuf:"varint,9,opt,name=long,proto3" json:"long,omitempty"`
}

func (m *Organisation) Reset()         { *m = Organisation{} }
func (m *Organisation) String() string { return proto.CompactTextString(m) }
func (*Organisation) ProtoMessage()    {}

// Names carries the discovered vocabularies of a dataset.
type Names struct {
	Categories []string `protobuf:"bytes,1,rep,name=categories,proto3" json:"categories,omitempty"`
	Stadsdelen []string `protobuf:"bytes,2,rep,name=stadsdelen,proto3" json:"stadsdelen,omitempty"`
	Wijken     []string `protobuf:"bytes,3,rep,name=wijken,proto3" json:"wijken,omitempty"`
}

func (m *Names) Reset()         { *m = Names{} }
func (m *Names) String() string { return proto.CompactTextString(m) }
func (*Names) ProtoMessage()    {}

func MarshalOrganisation(o *org.Organisation) ([]byte, error) {
	msg := &Organisation{
		Name:        o.Name,
		Pc6:         o.PC6,
		Category:    o.Category,
		RawCategory: o.RawCategory,
		Stadsdeel:   o.Stadsdeel,
		Wijk:        o.Wijk,
		Buurt:       o.Buurt,
		Lat:         CoordToInt(o.Lat),
		Long:        CoordToInt(o.Long),
	}
	return proto.Marshal(msg)
}

func UnmarshalOrganisation(id int, data []byte) (*org.Organisation, error) {
	msg := &Organisation{}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return &org.Organisation{
		Id:          id,
		Name:        msg.Name,
		PC6:         msg.Pc6,
		Category:    msg.Category,
		RawCategory: msg.RawCategory,
		Stadsdeel:   msg.Stadsdeel,
		Wijk:        msg.Wijk,
		Buurt:       msg.Buurt,
		Lat:         IntToCoord(msg.Lat),
		Long:        IntToCoord(msg.Long),
	}, nil
}

func MarshalNames(n *Names) ([]byte, error) {
	return proto.Marshal(n)
}

func UnmarshalNames(data []byte) (*Names, error) {
	n := &Names{}
	if err := proto.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}
