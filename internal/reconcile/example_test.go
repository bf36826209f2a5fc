package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"

	"github.com/pkordes/wanderkart/backend/internal/apiclient"
	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/reconcile"
)

// A wishlist backed by the API client. The server here accepts the add and
// answers the remove with 401, as it does once the session has expired.
func ExampleNewWishlist() {
	itemID := uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a01")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"success":true,"wishlist":[]}`)
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"success":true,"entry":{"_id":"5f0c1a2b-0000-4000-8000-000000000001","type":"stay","stay":{"_id":%q,"type":"stay","name":"Lakeside Cedar Cabin","options":[]}}}`, itemID)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"success":false,"message":"authentication required"}`)
		}
	}))
	defer srv.Close()

	client, err := apiclient.New(srv.URL, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx := context.Background()
	w := reconcile.NewWishlist(apiclient.WishlistRemote{Client: client}, quietLogger())
	if err := w.Refresh(ctx); err != nil {
		fmt.Println(err)
		return
	}

	present, _ := w.Toggle(ctx, itemID, nil, domain.ServiceStay)
	fmt.Println("favourited:", present, w.State(itemID.String()))

	present, err = w.Toggle(ctx, itemID, nil, "")
	var f *reconcile.Failure
	if errors.As(err, &f) {
		fmt.Println("favourited:", present, f.Message)
	}

	// Output:
	// favourited: true confirmed-present
	// favourited: true Please log in to add favourites.
}
