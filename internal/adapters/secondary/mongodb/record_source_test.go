package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentsToFrame(t *testing.T) {
	oid := primitive.NewObjectID()
	docs := []bson.D{
		{{Key: "_id", Value: oid}, {Key: "Gender", Value: "Male"}, {Key: "Age", Value: int32(44)}},
		{{Key: "_id", Value: oid}, {Key: "Age", Value: 21.5}, {Key: "Annual_Premium", Value: int64(40454)}},
		{{Key: "Gender", Value: nil}, {Key: "Previously_Insured", Value: true}},
	}

	frame := DocumentsToFrame(docs)

	assert.Equal(t, []string{"_id", "Gender", "Age", "Annual_Premium", "Previously_Insured"}, frame.Columns)
	assert.Equal(t, []string{oid.Hex(), "Male", "44", "", ""}, frame.Rows[0])
	assert.Equal(t, []string{oid.Hex(), "", "21.5", "40454", ""}, frame.Rows[1])
	assert.Equal(t, []string{"", "", "", "", "true"}, frame.Rows[2])
}

func TestDocumentsToFrame_Empty(t *testing.T) {
	frame := DocumentsToFrame(nil)
	assert.Equal(t, 0, frame.Len())
	assert.Empty(t, frame.Columns)
}
