package main

import (
	"edupath/internal/catalog"
	"edupath/internal/recommend"
)

// loadEngine arma el motor y el catalogo embebido para los comandos offline.
func loadEngine(academicQuestion string) (*recommend.Engine, *catalog.Catalog, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, nil, err
	}
	streams := recommend.DefaultStreamTable()
	if streamsFile != "" {
		if streams, err = recommend.LoadStreamTable(streamsFile); err != nil {
			return nil, nil, err
		}
	}
	var opts []recommend.EngineOption
	if academicQuestion != "" {
		opts = append(opts, recommend.WithAcademicQuestion(academicQuestion))
	}
	engine, err := recommend.NewEngine(streams, opts...)
	if err != nil {
		return nil, nil, err
	}
	return engine, cat, nil
}
