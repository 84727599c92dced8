package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"SceneSnapshot", &SceneSnapshot{}, "scene_snapshots"},
		{"SceneObject", &SceneObject{}, "scene_objects"},
		{"ArmatureRecord", &ArmatureRecord{}, "armatures"},
		{"MeshRecord", &MeshRecord{}, "meshes"},
		{"ClipRecord", &ClipRecord{}, "clips"},
		{"PoseRecord", &PoseRecord{}, "poses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 6)
	for _, m := range DatabaseModels {
		_, ok := m.(interface{ TableName() string })
		assert.True(t, ok, "%T has no table name", m)
	}
}
