// Package crop defines the crop taxonomy shared by loans, listings and
// field logs.
package crop

type Type string

const (
	Maize     Type = "Maize"
	Rice      Type = "Rice"
	Cassava   Type = "Cassava"
	Tomatoes  Type = "Tomatoes"
	Peppers   Type = "Peppers"
	Beans     Type = "Beans"
	Groundnut Type = "Groundnut"
	Sorghum   Type = "Sorghum"
	Millet    Type = "Millet"
	Yam       Type = "Yam"
	Other     Type = "Other"
)

func (t Type) Valid() bool {
	switch t {
	case Maize, Rice, Cassava, Tomatoes, Peppers, Beans, Groundnut, Sorghum, Millet, Yam, Other:
		return true
	}
	return false
}
