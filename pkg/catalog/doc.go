// Package catalog is an in-process Go client for the storefront catalog.
// It talks to the search backend directly, without going through HTTP.
//
//	c, err := catalog.New(ctx,
//	    catalog.WithElasticsearch([]string{"http://localhost:9200"}, "", ""),
//	    catalog.WithIndexes("amazon_products_4", "amazon_products_2"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	col, err := c.Collection(ctx, "sneakers", 10)
//	if errors.Is(err, catalog.ErrNoResults) {
//	    // nothing matched
//	}
package catalog
