package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/sves-app/vehicle-entry-api/api/handlers"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/databases/mocks"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeBody(rr *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(rr.Body).Decode(v)
}

const registrationBody = `{
	"firstName": "Kofi",
	"lastName": "Asante",
	"username": "kasante",
	"email": "kofi.asante@example.com",
	"password": "hunter2hunter2",
	"licensePlate": "GT 1234-20",
	"chassisNumber": "JTDBU4EE9A9123456",
	"vehicleMake": "Toyota",
	"vehicleModel": "Yaris",
	"vehicleYear": 2020,
	"vehicleColor": "Red"
}`

func TestPasswordHashing(t *testing.T) {
	first, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	second, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	// salted: equal plaintexts never share a hash
	assert.NotEqual(t, string(first), string(second))

	assert.NoError(t, bcrypt.CompareHashAndPassword(first, []byte("hunter2hunter2")))
	assert.NoError(t, bcrypt.CompareHashAndPassword(second, []byte("hunter2hunter2")))
	assert.Error(t, bcrypt.CompareHashAndPassword(first, []byte("wrong")))
}

func TestRegistration_RegisterHandlerMissingFields(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(`{"firstName": "Kofi"}`))
	if err != nil {
		t.Fatal(err)
	}

	re := handlers.Registration{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "All required fields must be filled.")
}

func TestRegistration_RegisterHandlerEmailConflict(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var singleResult databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	singleResult = &mocks.SingleResultHelper{}

	// email lookup succeeds, so the email is taken
	singleResult.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil)
	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already exists")
}

func TestRegistration_RegisterHandlerPlateConflict(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var vehiclesConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	vehiclesConn = &mocks.CollectionHelper{}

	noUser := &mocks.SingleResultHelper{}
	noUser.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	foundVehicle := &mocks.SingleResultHelper{}
	foundVehicle.On("Decode", mock.Anything).Return(nil)

	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(noUser)
	vehiclesConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(foundVehicle)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)
	db.(*MockDatabaseHelper).On("Collection", "vehicles").Return(vehiclesConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
		VDB: databases.NewVehicleDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "license plate already registered")
}

func TestRegistration_RegisterHandler(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var vehiclesConn databases.CollectionHelper
	var logsConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	vehiclesConn = &mocks.CollectionHelper{}
	logsConn = &mocks.CollectionHelper{}

	notFound := &mocks.SingleResultHelper{}
	notFound.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	usersConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	vehiclesConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	vehiclesConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	logsConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)
	db.(*MockDatabaseHelper).On("Collection", "vehicles").Return(vehiclesConn)
	db.(*MockDatabaseHelper).On("Collection", "access_logs").Return(logsConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
		VDB: databases.NewVehicleDatabase(db),
		LDB: databases.NewAccessLogDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Registration successful")
	assert.Contains(t, rr.Body.String(), "kasante")
	assert.Contains(t, rr.Body.String(), "GT 1234-20")
	// raw password never appears in the response
	assert.NotContains(t, rr.Body.String(), "hunter2hunter2")
	logsConn.(*mocks.CollectionHelper).AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestRegistration_RegisterHandlerVehicleInsertRollsBackUser(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var vehiclesConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	vehiclesConn = &mocks.CollectionHelper{}

	notFound := &mocks.SingleResultHelper{}
	notFound.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	usersConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	usersConn.(*mocks.CollectionHelper).On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	vehiclesConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	vehiclesConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)
	db.(*MockDatabaseHelper).On("Collection", "vehicles").Return(vehiclesConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
		VDB: databases.NewVehicleDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to create vehicle")
	// the half-committed user is removed again
	usersConn.(*mocks.CollectionHelper).AssertCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestRegistration_RegisterHandlerUserInsertLosesRace(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var vehiclesConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	vehiclesConn = &mocks.CollectionHelper{}

	notFound := &mocks.SingleResultHelper{}
	notFound.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	// the pre-check passed, but a concurrent insert got there first and the
	// unique index rejects ours
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	usersConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)
	vehiclesConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)

	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)
	db.(*MockDatabaseHelper).On("Collection", "vehicles").Return(vehiclesConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
		VDB: databases.NewVehicleDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "username or email already exists")
}

func TestRegistration_RegisterHandlerVehicleInsertLosesRace(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/register", jsonBody(registrationBody))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var usersConn databases.CollectionHelper
	var vehiclesConn databases.CollectionHelper

	db = &MockDatabaseHelper{}
	usersConn = &mocks.CollectionHelper{}
	vehiclesConn = &mocks.CollectionHelper{}

	notFound := &mocks.SingleResultHelper{}
	notFound.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	usersConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	usersConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	usersConn.(*mocks.CollectionHelper).On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	vehiclesConn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(notFound)
	vehiclesConn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)

	db.(*MockDatabaseHelper).On("Collection", "users").Return(usersConn)
	db.(*MockDatabaseHelper).On("Collection", "vehicles").Return(vehiclesConn)

	re := handlers.Registration{
		UDB: databases.NewUserDatabase(db),
		VDB: databases.NewVehicleDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.RegisterHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "vehicle already registered with that license plate or chassis number")
	// the half-committed user is removed before answering
	usersConn.(*mocks.CollectionHelper).AssertCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}
