package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"make",
			"model",
			"year",
			"price_per_day",
			"availability",
			"location",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"make": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 60,
			},

			"model": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 60,
			},

			"year": bson.M{
				"bsonType": "int",
				"minimum":  1950,
				"maximum":  2100,
			},

			"price_per_day": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"availability": bson.M{
				"bsonType": "bool",
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"image": bson.M{
				"bsonType": "string",
			},
		},
	},
}
