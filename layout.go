package canvas3d

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/canvas3d/core"
)

const (
	VertexSlot   = 0
	InstanceSlot = 1
)

var (
	vertexLayout   = createVertexBufferLayout(core.Vertex{}, wgpu.VertexStepModeVertex)
	instanceLayout = createVertexBufferLayout(core.Instance3d{}, wgpu.VertexStepModeInstance)
)

// VertexLayout describes core.Vertex as bound to slot 0.
func VertexLayout() wgpu.VertexBufferLayout { return vertexLayout }

// InstanceLayout describes core.Instance3d as bound to slot 1.
func InstanceLayout() wgpu.VertexBufferLayout { return instanceLayout }

// parseFormat maps a format tag to one attribute per shader location.
// A mat4 spans four consecutive float4 locations.
func parseFormat(name string) []wgpu.VertexFormat {
	switch name {
	case "float2":
		return []wgpu.VertexFormat{wgpu.VertexFormatFloat32x2}
	case "float3":
		return []wgpu.VertexFormat{wgpu.VertexFormatFloat32x3}
	case "float4":
		return []wgpu.VertexFormat{wgpu.VertexFormatFloat32x4}
	case "mat4":
		return []wgpu.VertexFormat{
			wgpu.VertexFormatFloat32x4,
			wgpu.VertexFormatFloat32x4,
			wgpu.VertexFormatFloat32x4,
			wgpu.VertexFormatFloat32x4,
		}
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

func formatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormatFloat32x2:
		return 8
	case wgpu.VertexFormatFloat32x3:
		return 12
	case wgpu.VertexFormatFloat32x4:
		return 16
	default:
		panic(fmt.Sprintf("unsupported vertex format: %v", f))
	}
}

func createVertexBufferLayout(vertexType any, stepMode wgpu.VertexStepMode) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("vertex type must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Tag.Get("canvas3d") == "layout" {
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				panic(err)
			}
			attrOffset := offset
			for k, format := range parseFormat(field.Tag.Get("format")) {
				attributes = append(attributes, wgpu.VertexAttribute{
					ShaderLocation: uint32(location + k),
					Offset:         attrOffset,
					Format:         format,
				})
				attrOffset += formatSize(format)
			}
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attributes,
	}
}

// toBufferBytes packs structs, arrays and slices of 32-bit scalars in little endian field order.
func toBufferBytes(data any) []byte {
	return appendBufferBytes(nil, reflect.ValueOf(data))
}

func appendBufferBytes(dst []byte, field reflect.Value) []byte {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			elem := field.Index(i)
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			dst = appendBufferBytes(dst, elem)
		}
	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			dst = appendBufferBytes(dst, field.Field(i))
		}
	case reflect.Float32:
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(field.Float())))
	case reflect.Uint32:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(field.Uint()))
	case reflect.Int32:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(field.Int())))
	default:
		panic(fmt.Errorf("unsupported buffer field type: %v", field.Type()))
	}
	return dst
}
