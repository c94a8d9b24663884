package kserde

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kblocks/kmodel"
)

const pipelineJSON = `{
  "id": "p1",
  "name": "orders by department",
  "blocks": [
    {"id": "emps", "type": "source", "outputs": [{"id": "out", "name": "out"}],
     "config": {"rows": [{"id": 1, "dept": 10}]}},
    {"id": "depts", "type": "source", "outputs": [{"id": "out", "name": "out"}]},
    {"id": "j", "type": "join",
     "inputs": [{"id": "left", "name": "left"}, {"id": "right", "name": "right"}],
     "config": {"joinType": "inner", "keys": [{"leftKey": "dept", "rightKey": "dept"}],
                "options": {"dedupe": true}}}
  ],
  "connections": [
    {"id": "c1", "sourceBlockId": "emps", "sourcePortId": "out", "targetBlockId": "j", "targetPortId": "left"},
    {"id": "c2", "sourceBlockId": "depts", "sourcePortId": "out", "targetBlockId": "j", "targetPortId": "right"}
  ]
}`

const pipelineYAML = `
id: p1
name: orders by department
blocks:
  - id: emps
    type: source
    outputs: [{id: out, name: out}]
    config:
      rows:
        - {id: 1, dept: 10}
  - id: depts
    type: source
    outputs: [{id: out, name: out}]
  - id: j
    type: join
    inputs: [{id: left, name: left}, {id: right, name: right}]
    config:
      joinType: inner
      keys: [{leftKey: dept, rightKey: dept}]
      options: {dedupe: true}
connections:
  - {id: c1, sourceBlockId: emps, sourcePortId: out, targetBlockId: j, targetPortId: left}
  - {id: c2, sourceBlockId: depts, sourcePortId: out, targetBlockId: j, targetPortId: right}
`

func TestPipelineFormatsAgree(t *testing.T) {
	fromJSON, err := JSONDeserializer[kmodel.Pipeline]()([]byte(pipelineJSON))
	assert.NoError(t, err)
	fromYAML, err := YAMLDeserializer[kmodel.Pipeline]()([]byte(pipelineYAML))
	assert.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	j, ok := fromYAML.Block("j")
	assert.True(t, ok)
	cfg, ok := j.Config.(kmodel.JoinConfig)
	assert.True(t, ok)
	assert.True(t, cfg.Options.Dedupe)

	src, _ := fromYAML.Block("emps")
	assert.Equal(t, []kmodel.Row{{"id": float64(1), "dept": float64(10)}}, src.Config.(kmodel.SourceConfig).Rows)
	assert.Equal(t, []string{"id", "dept"}, src.Config.(kmodel.SourceConfig).Columns)
}

func TestYAMLKeyOrderAndAliases(t *testing.T) {
	doc := `
base: &row {zeta: 1, alpha: 2, mid: 3}
rows:
  - *row
  - {mid: 4}
`
	type shape struct {
		Base kmodel.Row    `json:"base"`
		Rows kmodel.RowSet `json:"rows"`
	}
	got, err := YAMLDeserializer[shape]()([]byte(doc))
	assert.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got.Rows.Columns)
	assert.Equal(t, kmodel.Row{"zeta": float64(1), "alpha": float64(2), "mid": float64(3)}, got.Rows.Rows[0])
	assert.Equal(t, got.Base, got.Rows.Rows[0])

	empty, err := YAMLDeserializer[*kmodel.Pipeline]()([]byte(""))
	assert.NoError(t, err)
	assert.Zero(t, empty)
}

func TestYAMLRoundTripPipeline(t *testing.T) {
	serde := YAML[kmodel.Pipeline]()
	in, err := serde.Deserializer([]byte(pipelineYAML))
	assert.NoError(t, err)

	data, err := serde.Serializer(in)
	assert.NoError(t, err)

	out, err := serde.Deserializer(data)
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestYAMLNonStringKeys(t *testing.T) {
	rows, err := YAMLDeserializer[[]kmodel.Row]()([]byte("- {1: one, true: yes}\n"))
	assert.NoError(t, err)
	assert.Equal(t, []kmodel.Row{{"1": "one", "true": "yes"}}, rows)
}

func TestDeserializerErrors(t *testing.T) {
	_, err := JSONDeserializer[kmodel.Pipeline]()([]byte(`{"blocks": [{"id": "j", "type": "join", "config": {"keys": "x"}}]}`))
	assert.Error(t, err)

	_, err = YAMLDeserializer[kmodel.Pipeline]()([]byte("blocks: [\n"))
	assert.Error(t, err)
}

func TestJSONSerializerNaN(t *testing.T) {
	_, err := JSONSerializer[kmodel.Row]()(kmodel.Row{"v": math.NaN()})
	assert.Error(t, err) // JSON doesn't support NaN

	out, err := JSONIndentSerializer[kmodel.Row]()(kmodel.Row{"v": 1})
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"v\": 1\n}", string(out))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"p.json": pipelineJSON,
		"p.YAML": pipelineYAML,
		"p.yml":  pipelineYAML,
	} {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		p, err := ReadFile[kmodel.Pipeline](path)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(p.Blocks), name)
	}

	_, err := ReadFile[kmodel.Pipeline](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	assert.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = ReadFile[kmodel.Pipeline](bad)
	assert.Contains(t, err.Error(), "decode "+bad)
}
