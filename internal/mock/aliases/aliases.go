package aliases

import (
	"github.com/buildbarn/bb-cluster-relocator/pkg/volume"
)

// This file contains aliases for some of the interfaces provided by the
// volume package. These aliases are used to rename them to prevent
// naming collisions with other interface types for which we want to
// generate mocks.

// VolumeFile is an alias of volume.File.
type VolumeFile = volume.File
