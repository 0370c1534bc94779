package sqlstore

import "github.com/Najnomics/multihook-adapter/core"

var (
	_ core.HookSetStore   = (*HookSetStore)(nil)
	_ core.FeeConfigStore = (*FeeConfigStore)(nil)
	_ core.FeeConfigStore = (*CachedFeeConfigStore)(nil)
)
