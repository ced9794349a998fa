package pagination

// WithDefaults applies the default limit to zero or negative limits, clamps
// limits above the maximum and floors the offset at zero.
func (p Params) WithDefaults(cfg Config) Params {
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultLimit
	}
	if p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
