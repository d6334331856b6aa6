// Package mocks provides test doubles for the places client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	places "github.com/localpages/directory-cli/pkg/places"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchText provides a mock function with given fields: ctx, req
func (_m *MockClient) SearchText(ctx context.Context, req places.SearchRequest) ([]places.PlaceSummary, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for SearchText")
	}

	var r0 []places.PlaceSummary
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, places.SearchRequest) ([]places.PlaceSummary, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, places.SearchRequest) []places.PlaceSummary); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]places.PlaceSummary)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, places.SearchRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Details provides a mock function with given fields: ctx, placeID
func (_m *MockClient) Details(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	ret := _m.Called(ctx, placeID)

	if len(ret) == 0 {
		panic("no return value specified for Details")
	}

	var r0 *places.PlaceDetails
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*places.PlaceDetails, error)); ok {
		return rf(ctx, placeID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *places.PlaceDetails); ok {
		r0 = rf(ctx, placeID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*places.PlaceDetails)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, placeID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PhotoMedia provides a mock function with given fields: ctx, photoRef, maxWidthPx
func (_m *MockClient) PhotoMedia(ctx context.Context, photoRef string, maxWidthPx int) ([]byte, string, error) {
	ret := _m.Called(ctx, photoRef, maxWidthPx)

	if len(ret) == 0 {
		panic("no return value specified for PhotoMedia")
	}

	var r0 []byte
	var r1 string
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]byte, string, error)); ok {
		return rf(ctx, photoRef, maxWidthPx)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []byte); ok {
		r0 = rf(ctx, photoRef, maxWidthPx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) string); ok {
		r1 = rf(ctx, photoRef, maxWidthPx)
	} else {
		r1 = ret.String(1)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string, int) error); ok {
		r2 = rf(ctx, photoRef, maxWidthPx)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}
