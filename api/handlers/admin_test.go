package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/sves-app/vehicle-entry-api/api"
	"github.com/sves-app/vehicle-entry-api/api/handlers"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/databases/mocks"
	"github.com/sves-app/vehicle-entry-api/models"
)

func TestAdmin_AdminRegisterHandlerAlreadyExists(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/register",
		jsonBody(`{"username": "admin", "email": "admin@example.com", "password": "s3cret"}`))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}

	adminConn.(*mocks.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	h := handlers.Admin{DB: databases.NewAdminDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminRegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "admin already exists, only one allowed")
	adminConn.(*mocks.CollectionHelper).AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestAdmin_AdminRegisterHandler(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/register",
		jsonBody(`{"username": "admin", "email": "admin@example.com", "password": "s3cret"}`))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}

	adminConn.(*mocks.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	adminConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	h := handlers.Admin{DB: databases.NewAdminDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminRegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Admin registered successfully")
	// the stored hash is never echoed back
	assert.NotContains(t, rr.Body.String(), "s3cret")
}

func TestAdmin_AdminLoginHandlerUnknownUsername(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/login",
		jsonBody(`{"username": "nobody", "password": "s3cret"}`))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper
	var singleResult databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}
	singleResult = &mocks.SingleResultHelper{}

	singleResult.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	adminConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	h := handlers.Admin{DB: databases.NewAdminDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"invalid username or password"}`, rr.Body.String())
}

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/login",
		jsonBody(`{"username": "admin", "password": "wrong"}`))
	if err != nil {
		t.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper
	var singleResult databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}
	singleResult = &mocks.SingleResultHelper{}

	singleResult.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Admin)
		(*arg).Username = "admin"
		(*arg).Password = string(hash)
	})
	adminConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	h := handlers.Admin{DB: databases.NewAdminDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	// same body as the unknown-username case, on purpose
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"invalid username or password"}`, rr.Body.String())
}

func TestAdmin_AdminRegisterHandlerLosesRace(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/register",
		jsonBody(`{"username": "admin", "email": "admin@example.com", "password": "s3cret"}`))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}

	// the count said zero, but a concurrent register won and the unique
	// index rejects this insert
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	adminConn.(*mocks.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	adminConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	h := handlers.Admin{DB: databases.NewAdminDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminRegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "admin already exists, only one allowed")
}

func TestAdmin_AdminLoginHandler(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/admin/login",
		jsonBody(`{"username": "admin", "password": "right"}`))
	if err != nil {
		t.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var adminConn databases.CollectionHelper
	var singleResult databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	adminConn = &mocks.CollectionHelper{}
	singleResult = &mocks.SingleResultHelper{}

	singleResult.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Admin)
		(*arg).Username = "admin"
		(*arg).Password = string(hash)
	})
	adminConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.(*MockDatabaseHelper).On("Collection", "admin_users").Return(adminConn)

	api.MiddlewareDB{DB: databases.NewAdminDatabase(db)}.SetupGoGuardian()

	// the signing key comes from the handler config, not the environment
	h := handlers.Admin{DB: databases.NewAdminDatabase(db), Secret: "unit-test-secret"}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.AdminLoginHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Login successful")
	assert.Contains(t, rr.Body.String(), `"token":`)
}
