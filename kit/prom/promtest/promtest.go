// Package promtest finds metrics in gathered or printed prometheus output.
// It depends on the testing package and is only meant for test files.
package promtest

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// FromText parses metrics written in the prometheus text exposition
// format, such as the output of the stats command. Families are returned
// sorted by name, the same order Gather uses.
func FromText(r io.Reader) ([]*dto.MetricFamily, error) {
	var p expfmt.TextParser
	byName, err := p.TextToMetricFamilies(r)
	if err != nil {
		return nil, err
	}

	mfs := make([]*dto.MetricFamily, 0, len(byName))
	for _, mf := range byName {
		mfs = append(mfs, mf)
	}
	sort.Slice(mfs, func(i, j int) bool {
		return mfs[i].GetName() < mfs[j].GetName()
	})
	return mfs, nil
}

// FindMetric returns the first metric in the family called name whose
// labels are exactly labels, or nil.
func FindMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	_, m := findMetric(mfs, name, labels)
	return m
}

// MustFindMetric is FindMetric that fails tb, listing what was available,
// when nothing matches.
func MustFindMetric(tb testing.TB, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	tb.Helper()

	fam, m := findMetric(mfs, name, labels)
	if fam == nil {
		names := make([]string, len(mfs))
		for i, mf := range mfs {
			names[i] = mf.GetName()
		}
		tb.Fatalf("metric family %q not found; have %s", name, strings.Join(names, ", "))
		return nil
	}

	if m == nil {
		var sets []string
		for _, m := range fam.Metric {
			pairs := make([]string, len(m.Label))
			for i, l := range m.Label {
				pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
			}
			sets = append(sets, "{"+strings.Join(pairs, ",")+"}")
		}
		tb.Fatalf("metric family %q has no metric labeled %v; have %s", name, labels, strings.Join(sets, " "))
		return nil
	}

	return m
}

func findMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.MetricFamily, *dto.Metric) {
	var fam *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == name {
			fam = mf
			break
		}
	}
	if fam == nil {
		return nil, nil
	}

next:
	for _, m := range fam.Metric {
		if len(m.Label) != len(labels) {
			continue
		}
		for _, l := range m.Label {
			if v, ok := labels[l.GetName()]; !ok || v != l.GetValue() {
				continue next
			}
		}
		return fam, m
	}
	return fam, nil
}

// MustGather calls g.Gather and fails tb on error.
func MustGather(tb testing.TB, g prometheus.Gatherer) []*dto.MetricFamily {
	tb.Helper()

	mfs, err := g.Gather()
	if err != nil {
		tb.Fatalf("error while gathering metrics: %v", err)
		return nil
	}
	return mfs
}
