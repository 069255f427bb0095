package ingest

import "attractor/internal/services/analyze/domain"

// batch wraps domain.Batch with the row helpers the readers share
type batch = domain.Batch

func add(b *batch, f fields, source string, line int) {
	in, err := f.recordIn()
	if err == nil {
		if in.ID == "" {
			in.ID = recordID(source, line)
		}
		var r domain.Record
		if r, err = Convert(in); err == nil {
			b.Records = append(b.Records, r)
			return
		}
	}
	b.Rejections = append(b.Rejections, Rejection(source, line, err))
}

func merge(dst *batch, src batch) {
	dst.Records = append(dst.Records, src.Records...)
	dst.Rejections = append(dst.Rejections, src.Rejections...)
	dst.Sources = append(dst.Sources, src.Sources...)
}
