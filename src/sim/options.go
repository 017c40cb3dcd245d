package sim

import "time"

func (r *runner) _applyOption(opt SetupOption) {
	switch v := opt.(type) {
	case Progress:
		r.progress = v
	case Clock:
		r.now = v
	}
}

type SetupOption interface {
	isSetupOption()
}

// Progress is called once for every finished key exchange attempt.
type Progress func()

// Clock replaces time.Now for the report timestamps.
type Clock func() time.Time

func (a Progress) isSetupOption() {}
func (a Clock) isSetupOption()    {}
