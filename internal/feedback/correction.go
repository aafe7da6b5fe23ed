package feedback

import "github.com/sells-group/ctrm-fit/internal/model"

// Role is the slot a product takes in a user correction.
type Role string

// Roles.
const (
	RoleIdeal  Role = "ideal"
	RoleStrong Role = "strong"
)

// Correction holds the in-progress ideal / strong picks of the correction
// form. The zero value has nothing selected.
type Correction struct {
	Ideal  model.ProductID `json:"ideal,omitempty" yaml:"ideal"`
	Strong model.ProductID `json:"strong,omitempty" yaml:"strong"`
}

// Select toggles id in role. Picking the product already in role clears it;
// picking a product held by the other role moves it, so one product never
// holds both roles.
func (c *Correction) Select(id model.ProductID, role Role) {
	this, other := &c.Ideal, &c.Strong
	if role == RoleStrong {
		this, other = other, this
	}
	if *other == id {
		*other = ""
	}
	if *this == id {
		*this = ""
		return
	}
	*this = id
}

// UserCorrection converts the picks to the feedback shape. It returns nil
// when nothing is selected.
func (c Correction) UserCorrection() *model.UserCorrection {
	if c.Ideal == "" && c.Strong == "" {
		return nil
	}
	return &model.UserCorrection{Ideal: c.Ideal, Strong: c.Strong}
}
