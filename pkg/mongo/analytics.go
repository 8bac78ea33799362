package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"up2you.app/storefront/pkg/models"
)

type statsTotals struct {
	TotalItems    int     `bson:"total_items"`
	TotalQuantity int     `bson:"total_quantity"`
	TotalValue    float64 `bson:"total_value"`
}

type statsFacets struct {
	Totals     []statsTotals          `bson:"totals"`
	ByCategory []models.CategoryStats `bson:"by_category"`
}

// clampedField yields max(ifNull(field, 0), 0) so that absent or negative values count as zero.
func clampedField(field string) bson.D {
	return bson.D{{Key: "$max", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{field, 0}}},
		0,
	}}}
}

// statsPipeline computes totals and per-category rows in one $facet stage.
func statsPipeline() bson.A {
	quantity := clampedField("$quantity")
	price := clampedField("$price")

	pipeline := bson.A{
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "totals", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "total_items", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "total_quantity", Value: bson.D{{Key: "$sum", Value: quantity}}},
					{Key: "total_value", Value: bson.D{{Key: "$sum", Value: bson.D{
						{Key: "$multiply", Value: bson.A{price, quantity}},
					}}}},
				}}},
			}},
			{Key: "by_category", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$category", ""}}}},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "qty", Value: bson.D{{Key: "$sum", Value: quantity}}},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
			}},
		}}},
	}
	return pipeline
}

// Stats aggregates the collection server-side with the same rules as stats.Compute.
func (s *Store) Stats(ctx context.Context) (*models.Stats, error) {
	cursor, err := s.collection.Aggregate(ctx, statsPipeline())
	if err != nil {
		return nil, classify("failed to aggregate stats", err)
	}
	defer cursor.Close(ctx)

	var facets []statsFacets
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, classify("failed to decode stats", err)
	}

	result := &models.Stats{ByCategory: []models.CategoryStats{}}
	if len(facets) == 0 {
		return result, nil
	}
	if len(facets[0].Totals) > 0 {
		totals := facets[0].Totals[0]
		result.TotalItems = totals.TotalItems
		result.TotalQuantity = totals.TotalQuantity
		result.TotalValue = totals.TotalValue
	}
	if facets[0].ByCategory != nil {
		result.ByCategory = facets[0].ByCategory
	}
	return result, nil
}
