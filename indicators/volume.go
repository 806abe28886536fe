package indicators

import (
	"fmt"

	"github.com/dxbquant/orb/market"
)

// VolumeMA is a streaming simple moving average over bar volume.
type VolumeMA struct {
	period  int
	volumes []float64
}

// NewVolumeMA creates a volume moving average indicator with the given period.
func NewVolumeMA(period int) *VolumeMA {
	return &VolumeMA{
		period:  period,
		volumes: make([]float64, 0, period),
	}
}

func (v *VolumeMA) Name() string {
	return fmt.Sprintf("VolMA(%d)", v.period)
}

func (v *VolumeMA) Warmup() int {
	return v.period
}

func (v *VolumeMA) Reset() {
	v.volumes = v.volumes[:0]
}

func (v *VolumeMA) Update(b market.Bar) {
	v.volumes = append(v.volumes, b.Volume)
	if len(v.volumes) > v.period {
		v.volumes = v.volumes[1:]
	}
}

func (v *VolumeMA) Ready() bool {
	return len(v.volumes) >= v.period
}

func (v *VolumeMA) Value() float64 {
	if !v.Ready() {
		return 0
	}
	sum := 0.0
	for _, vol := range v.volumes {
		sum += vol
	}
	return sum / float64(len(v.volumes))
}
