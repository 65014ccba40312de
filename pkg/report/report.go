package report

import (
	"fmt"
	"io"
	"strconv"

	"emperror.dev/errors"
	"github.com/c2h5oh/datasize"
	"github.com/goccy/go-json"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"

	"github.com/voluzi/process-watcher/internal/timestamp"
	"github.com/voluzi/process-watcher/pkg/query"
	"github.com/voluzi/process-watcher/pkg/schema"
)

type Format string

const (
	Text       Format = "text"
	JSON       Format = "json"
	YAML       Format = "yaml"
	Prometheus Format = "prometheus"

	MetricName = "process_watcher_subtree_peak_kilobytes"
)

// Formats lists every supported output format.
var Formats = []string{string(Text), string(JSON), string(YAML), string(Prometheus)}

// Options controls how a result is rendered.
type Options struct {
	Format Format
	// Human renders text output as human readable sizes instead of kB.
	Human bool
}

// Metric is the peak of one tracked value.
type Metric struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value_kb" yaml:"value_kb"`
}

// Document is the structured form of a query result.
type Document struct {
	Pid       int32    `json:"pid" yaml:"pid"`
	Begin     string   `json:"begin" yaml:"begin"`
	End       string   `json:"end" yaml:"end"`
	Snapshots int      `json:"snapshots" yaml:"snapshots"`
	Matched   int      `json:"matched" yaml:"matched"`
	Max       []Metric `json:"max" yaml:"max"`
}

// NewDocument converts res, keeping metrics in schema order.
func NewDocument(res *query.Result) Document {
	doc := Document{
		Pid:       res.Query.TopPid,
		Begin:     timestamp.Format(res.Query.Begin),
		End:       timestamp.Format(res.Query.End),
		Snapshots: res.InWindow,
		Matched:   res.Matched,
		Max:       make([]Metric, schema.Count),
	}
	for i, name := range schema.Names {
		doc.Max[i] = Metric{Name: name, Value: res.Max[i]}
	}
	return doc
}

// Write renders res to w.
func Write(w io.Writer, res *query.Result, opts Options) error {
	switch opts.Format {
	case Text, "":
		return writeText(w, res, opts.Human)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(res))
	case YAML:
		enc := yaml.NewEncoder(w)
		return errors.Combine(enc.Encode(NewDocument(res)), enc.Close())
	case Prometheus:
		return writePrometheus(w, res)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func writeText(w io.Writer, res *query.Result, human bool) error {
	if _, err := fmt.Fprintln(w, "Max values:"); err != nil {
		return err
	}
	for i, name := range schema.Names {
		var err error
		if human {
			_, err = fmt.Fprintf(w, " %20s  %s\n", humanKB(res.Max[i]), name)
		} else {
			_, err = fmt.Fprintf(w, " %20d  %s\n", res.Max[i], name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func humanKB(kb int64) string {
	if kb <= 0 {
		return "0 B"
	}
	return (datasize.ByteSize(kb) * datasize.KB).HumanReadable()
}

func writePrometheus(w io.Writer, res *query.Result) error {
	pid := strconv.Itoa(int(res.Query.TopPid))
	family := &dto.MetricFamily{
		Name: proto.String(MetricName),
		Help: proto.String("Peak memory usage of a process subtree over the queried window."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for i, name := range schema.Names {
		family.Metric = append(family.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				{Name: proto.String("metric"), Value: proto.String(name)},
				{Name: proto.String("pid"), Value: proto.String(pid)},
			},
			Gauge: &dto.Gauge{Value: proto.Float64(float64(res.Max[i]))},
		})
	}
	_, err := expfmt.MetricFamilyToText(w, family)
	return err
}
