package mock

//go:generate mockgen -package mock -destination aliases.go github.com/buildbarn/bb-cluster-relocator/internal/mock/aliases VolumeFile
//go:generate mockgen -package mock -destination random.go github.com/buildbarn/bb-storage/pkg/random SingleThreadedGenerator
//go:generate mockgen -package mock -destination relocation.go github.com/buildbarn/bb-cluster-relocator/pkg/relocation FileProcessor
//go:generate mockgen -package mock -destination util.go github.com/buildbarn/bb-storage/pkg/util ErrorLogger
//go:generate mockgen -package mock -destination volume.go github.com/buildbarn/bb-cluster-relocator/pkg/volume Volume
