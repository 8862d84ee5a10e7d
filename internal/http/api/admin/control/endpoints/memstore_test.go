package endpoints_test

import (
	"sync"
	"time"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/model"
)

// memStore is an in-memory db.Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	users      map[int]*model.User
	bookings   map[int]model.Booking
	allotments map[int]model.Allotment
	runs       map[string]model.AllocationRun
	nextUser   int
	nextID     int
}

var _ db.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      map[int]*model.User{},
		bookings:   map[int]model.Booking{},
		allotments: map[int]model.Allotment{},
		runs:       map[string]model.AllocationRun{},
	}
}

func (s *memStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	s.users[s.nextUser] = &model.User{
		ID: s.nextUser, Email: email, HashedPassword: hashedPassword, Name: name,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return s.nextUser, nil
}

func (s *memStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (s *memStore) GetUserByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) UpdateUserProfile(id int, email string, name *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return db.ErrUserNotFound
	}
	u.Email = email
	if name != nil {
		u.Name = name
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) CreateBooking(uniqueID, adminName string, age, whatsapp *string, persons, createdBy int) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := model.Booking{
		ID: s.nextID, UniqueID: uniqueID, GroupAdminName: adminName,
		Age: age, WhatsAppNo: whatsapp, Persons: persons,
		Status: model.BookingPending, CreatedBy: createdBy,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *memStore) GetBookingByID(id int) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, db.ErrBookingNotFound
	}
	return b, nil
}

func (s *memStore) ListBookings(ownerID int) ([]model.Booking, error) {
	return s.selectBookings(func(b model.Booking) bool { return b.CreatedBy == ownerID }), nil
}

func (s *memStore) ListPendingBookings(ownerID int) ([]model.Booking, error) {
	return s.selectBookings(func(b model.Booking) bool {
		return b.CreatedBy == ownerID && b.Status == model.BookingPending
	}), nil
}

func (s *memStore) selectBookings(keep func(model.Booking) bool) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for id := 1; id <= s.nextID; id++ {
		if b, ok := s.bookings[id]; ok && keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *memStore) UpdateBooking(id int, adminName, age, whatsapp *string, persons *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return db.ErrBookingNotFound
	}
	if adminName != nil {
		b.GroupAdminName = *adminName
	}
	if age != nil {
		b.Age = age
	}
	if whatsapp != nil {
		b.WhatsAppNo = whatsapp
	}
	if persons != nil {
		b.Persons = *persons
	}
	b.UpdatedAt = time.Now()
	s.bookings[id] = b
	return nil
}

func (s *memStore) DeleteBooking(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return db.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *memStore) MarkBookingAllocated(id int, dhajaNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != model.BookingPending {
		return db.ErrBookingNotFound
	}
	b.Status = model.BookingAllocated
	b.AllottedDhaja = &dhajaNo
	s.bookings[id] = b
	return nil
}

func (s *memStore) ResetBookingAllocations(ownerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range s.bookings {
		if b.CreatedBy == ownerID && b.Status == model.BookingAllocated {
			b.Status = model.BookingPending
			b.AllottedDhaja = nil
			s.bookings[id] = b
		}
	}
	for id, a := range s.allotments {
		if a.CreatedBy == ownerID && a.Status == model.AllotmentFilled {
			a.Status = model.AllotmentOpen
			a.Booking1ID, a.Booking1Persons = nil, nil
			a.Booking2ID, a.Booking2Persons = nil, nil
			s.allotments[id] = a
		}
	}
	return nil
}

func (s *memStore) CreateAllotment(section, dhajaNo string, capacity, position, createdBy int) (model.Allotment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a := model.Allotment{
		ID: s.nextID, Section: section, DhajaNo: dhajaNo,
		Capacity: capacity, Position: position, Status: model.AllotmentOpen,
		CreatedBy: createdBy, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.allotments[a.ID] = a
	return a, nil
}

func (s *memStore) GetAllotmentByID(id int) (model.Allotment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allotments[id]
	if !ok {
		return model.Allotment{}, db.ErrAllotmentNotFound
	}
	return a, nil
}

func (s *memStore) ListAllotments(ownerID int) ([]model.Allotment, error) {
	return s.selectAllotments(func(a model.Allotment) bool { return a.CreatedBy == ownerID }), nil
}

func (s *memStore) ListOpenAllotments(ownerID int) ([]model.Allotment, error) {
	return s.selectAllotments(func(a model.Allotment) bool {
		return a.CreatedBy == ownerID && a.Status == model.AllotmentOpen
	}), nil
}

func (s *memStore) selectAllotments(keep func(model.Allotment) bool) []model.Allotment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Allotment
	for id := 1; id <= s.nextID; id++ {
		if a, ok := s.allotments[id]; ok && keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) UpdateAllotment(id int, dhajaNo *string, capacity *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allotments[id]
	if !ok {
		return db.ErrAllotmentNotFound
	}
	if dhajaNo != nil {
		a.DhajaNo = *dhajaNo
	}
	if capacity != nil {
		a.Capacity = *capacity
	}
	a.UpdatedAt = time.Now()
	s.allotments[id] = a
	return nil
}

func (s *memStore) DeleteAllotment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allotments[id]; !ok {
		return db.ErrAllotmentNotFound
	}
	delete(s.allotments, id)
	return nil
}

func (s *memStore) FillAllotment(id int, booking1, booking2 *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allotments[id]
	if !ok || a.Status != model.AllotmentOpen {
		return db.ErrAllotmentNotFound
	}
	a.Status = model.AllotmentFilled
	a.Booking1ID, a.Booking1Persons = &booking1.ID, &booking1.Persons
	if booking2 != nil {
		a.Booking2ID, a.Booking2Persons = &booking2.ID, &booking2.Persons
	}
	s.allotments[id] = a
	return nil
}

func (s *memStore) CreateRun(run model.AllocationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *memStore) GetRun(id string) (model.AllocationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return model.AllocationRun{}, db.ErrRunNotFound
	}
	return r, nil
}

func (s *memStore) ListRuns(ownerID int) ([]model.AllocationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AllocationRun
	for _, r := range s.runs {
		if r.RequestedBy == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) UpdateRunProgress(id string, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return db.ErrRunNotFound
	}
	r.Status = model.RunRunning
	r.Progress = progress
	s.runs[id] = r
	return nil
}

func (s *memStore) FinishRun(id, status string, placed, filled int, errText, exportPath *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return db.ErrRunNotFound
	}
	now := time.Now()
	r.Status = status
	r.Progress = 1
	r.BookingsPlaced = placed
	r.AllotmentsFilled = filled
	r.Error = errText
	r.ExportPath = exportPath
	r.FinishedAt = &now
	s.runs[id] = r
	return nil
}
