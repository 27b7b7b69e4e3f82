// Package energy loads U.S. energy-production CSV files into the production
// table and answers aggregate questions about them.
//
// A load is destructive: the production table is dropped and recreated inside
// one transaction, so the table always holds exactly one file's rows. A failed
// load rolls back and leaves the previous table untouched.
//
//	loader := energy.NewLoader(store, logger)
//	if _, err := loader.Load(ctx, "energy.csv"); err != nil {
//	    return err
//	}
//	total, err := energy.NewAggregator(store, logger).TotalProduction(ctx, "Wind", 2017)
package energy
