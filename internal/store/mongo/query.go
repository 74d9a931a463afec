package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"fintrack/internal/core"
)

// filterQuery translates a core.Filter into a find query with the same
// semantics the file store applies in memory: all constraints AND-combined,
// absent fields unconstrained, search as a case-insensitive title substring.
func filterQuery(f core.Filter) bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = string(f.Type)
	}
	if f.Category != "" {
		q["category"] = string(f.Category)
	}
	if !f.StartDate.IsZero() || !f.EndDate.IsZero() {
		dateRange := bson.M{}
		if !f.StartDate.IsZero() {
			dateRange["$gte"] = f.StartDate.Time
		}
		if !f.EndDate.IsZero() {
			dateRange["$lte"] = f.EndDate.Time
		}
		q["date"] = dateRange
	}
	if f.Search != "" {
		q["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if f.OwnerID != "" {
		q["ownerId"] = f.OwnerID
	}
	return q
}

// listSort orders by date descending, creation time descending. ObjectIDs
// are creation-ordered, so _id breaks exact createdAt ties deterministically,
// most recently created first.
func listSort() bson.D {
	return bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

func ownerMatch(ownerID string) bson.M {
	if ownerID == "" {
		return bson.M{}
	}
	return bson.M{"ownerId": ownerID}
}

// summaryPipeline folds the whole (optionally owner-scoped) collection into
// income and expense totals in a single group stage.
func summaryPipeline(ownerID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ownerMatch(ownerID)}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"totalIncome": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$type", "income"}}, "$amount", 0},
			}},
			"totalExpenses": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$type", "expense"}}, "$amount", 0},
			}},
			"transactionCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":              0,
			"totalIncome":      1,
			"totalExpenses":    1,
			"currentBalance":   bson.M{"$subtract": bson.A{"$totalIncome", "$totalExpenses"}},
			"transactionCount": 1,
		}}},
	}
}

// breakdownPipeline groups expenses by category and computes each group's
// share of the grand total. The grand total comes from a second group stage
// over all category groups, so percentages always sum to 100.
func breakdownPipeline(ownerID string) mongo.Pipeline {
	match := ownerMatch(ownerID)
	match["type"] = "expense"
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$category",
			"amount": bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"entries":    bson.M{"$push": "$$ROOT"},
			"grandTotal": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$unwind", Value: "$entries"}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"category": "$entries._id",
			"amount":   "$entries.amount",
			"count":    "$entries.count",
			"percentage": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$grandTotal", 0}},
				bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{"$entries.amount", "$grandTotal"}}, 100,
				}},
				0,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "amount", Value: -1}, {Key: "category", Value: 1}}}},
	}
}
