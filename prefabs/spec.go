package prefabs

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/locomotion"
	"github.com/milk9111/topdown/steering"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := DecodeSpec[T](data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// DecodeSpec unmarshals YAML into T, rejecting unknown fields.
func DecodeSpec[T any](data []byte) (T, error) {
	var spec T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		var zero T
		return zero, err
	}
	return spec, nil
}

// TransformSpec places an entity. Heading is in degrees.
type TransformSpec struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Heading float64 `yaml:"heading"`
}

func (t TransformSpec) Position() mgl64.Vec3 {
	return mgl64.Vec3{t.X, t.Y, t.Z}
}

func (t TransformSpec) HeadingRad() float64 {
	return mgl64.DegToRad(t.Heading)
}

type BodySpec struct {
	Radius float64 `yaml:"radius"`
}

type PlayerSpec struct {
	Name      string                   `yaml:"name"`
	Mode      string                   `yaml:"mode"`
	Transform TransformSpec            `yaml:"transform"`
	Body      BodySpec                 `yaml:"body"`
	TopDown   locomotion.TopDownParams `yaml:"top_down"`
	Click     locomotion.ClickParams   `yaml:"click"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Body.Radius <= 0 {
		return nil, fmt.Errorf("prefabs: player.yaml: body radius %v: %w", spec.Body.Radius, ErrInvalidSpec)
	}
	return &spec, nil
}

// SpawnSpec lays Count enemies on a ring of Radius around the transform.
type SpawnSpec struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

type EnemySpec struct {
	Name      string          `yaml:"name"`
	Transform TransformSpec   `yaml:"transform"`
	Body      BodySpec        `yaml:"body"`
	Steering  steering.Params `yaml:"steering"`
	Spawn     SpawnSpec       `yaml:"spawn"`
}

func LoadEnemySpec() (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec]("enemy.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Steering.Speed < 0 || spec.Steering.StopDistance < 0 || spec.Steering.DetectionRadius < 0 {
		return nil, fmt.Errorf("prefabs: enemy.yaml: negative steering parameter: %w", ErrInvalidSpec)
	}
	return &spec, nil
}

type CameraSpec struct {
	Name string        `yaml:"name"`
	Rig  camera.Params `yaml:"rig"`
	FovY float64       `yaml:"fov_y"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Rig.MinHeight > spec.Rig.MaxHeight || spec.Rig.MinVertical > spec.Rig.MaxVertical {
		return nil, fmt.Errorf("prefabs: camera.yaml: min above max: %w", ErrInvalidSpec)
	}
	if spec.FovY <= 0 {
		spec.FovY = 60
	}
	return &spec, nil
}

// GridSpec configures the debug ground grid.
type GridSpec struct {
	Spacing    float64    `yaml:"spacing"`
	Size       float64    `yaml:"size"`
	Labels     bool       `yaml:"labels"`
	LabelEvery int        `yaml:"label_every"`
	Color      *YAMLColor `yaml:"color"`
	AxisColor  *YAMLColor `yaml:"axis_color"`
}

func LoadGridSpec() (*GridSpec, error) {
	spec, err := LoadSpec[GridSpec]("grid.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Spacing <= 0 {
		return nil, fmt.Errorf("prefabs: grid.yaml: spacing %v: %w", spec.Spacing, ErrInvalidSpec)
	}
	if spec.LabelEvery <= 0 {
		spec.LabelEvery = 1
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid color format: %s: %w", value.Value, err)
		}
		rgba[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
