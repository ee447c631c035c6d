package overpass

// Response is the top-level JSON document returned by the interpreter
// endpoint when the query asks for [out:json].
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Elements  []Element `json:"elements"`
	// Remark carries runtime errors such as timeouts; the status is still 200.
	Remark string `json:"remark,omitempty"`
}

// Element is a node, way or relation. Nodes carry Lat/Lon directly; ways and
// relations only have them when the query requested "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns the element's coordinates and whether it has any.
func (e Element) Position() (lat, lon float64, ok bool) {
	if e.Type == "node" || (e.Lat != 0 || e.Lon != 0) {
		return e.Lat, e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}
