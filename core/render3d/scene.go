package render3d

// Scene holds meshes under a shared world transform.
type Scene struct {
	Camera Camera
	// World is applied to every mesh before its own transform.
	World Mat4

	meshes []Mesh
	alive  []bool
	n      int
}

// CreateScene allocates a scene with room for capacity meshes. AddMesh grows
// it when full.
func CreateScene(capacity int) *Scene {
	capacity = max(capacity, 0)
	return &Scene{
		Camera: ScreenCamera(1, 1),
		World:  Identity(),
		meshes: make([]Mesh, capacity),
		alive:  make([]bool, capacity),
	}
}

// AddMesh adds m and returns its id.
func (s *Scene) AddMesh(m Mesh) int {
	if m.Transform == (Mat4{}) {
		m.Transform = Identity()
	}
	m.Enabled = true
	for i := range s.meshes {
		if !s.alive[i] {
			s.meshes[i] = m
			s.alive[i] = true
			s.n++
			return i
		}
	}
	s.meshes = append(s.meshes, m)
	s.alive = append(s.alive, true)
	s.n++
	return len(s.meshes) - 1
}

// RemoveMesh removes a mesh by id. Its id may be reused.
func (s *Scene) RemoveMesh(id int) {
	if !s.live(id) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
	s.n--
}

// Clear removes every mesh but keeps the storage.
func (s *Scene) Clear() {
	for i := range s.meshes {
		s.meshes[i] = Mesh{}
		s.alive[i] = false
	}
	s.n = 0
}

// Len returns the number of live meshes.
func (s *Scene) Len() int { return s.n }

func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if !s.live(id) {
		return
	}
	s.meshes[id].Enabled = enabled
}

func (s *Scene) UpdateMeshTransform(id int, m Mat4) {
	if !s.live(id) {
		return
	}
	s.meshes[id].Transform = m
}

// Mesh returns the mesh with the given id.
func (s *Scene) Mesh(id int) (Mesh, bool) {
	if !s.live(id) {
		return Mesh{}, false
	}
	return s.meshes[id], true
}

func (s *Scene) live(id int) bool { return id >= 0 && id < len(s.meshes) && s.alive[id] }

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if s.alive[i] {
			fn(&s.meshes[i])
		}
	}
}
