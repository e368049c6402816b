// Package factory provides a small generic registry used to instantiate modules
// from configuration. A module is described by a type string and a map of raw
// settings; the registered factory decodes the settings into a typed struct and
// returns the concrete implementation.
//
// Predictors, metrics sinks and job stores are all built this way:
//
//	reg := factory.NewRegistry[jobs.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (jobs.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return jobstore.NewJSONLStore(c.Path)
//	})
//	st, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "jobs.jsonl"}})
package factory
