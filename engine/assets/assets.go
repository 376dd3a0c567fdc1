package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-shell/engine/assets/loaders"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// Changed is published when a cached asset is invalidated because one of its
// files changed on disk.
type Changed struct {
	Path string
	Type metadata.ResourceType
}

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
	resource   *metadata.Resource
	deps       []string
}

// AssetManager caches loaded resources under a root directory and evicts
// them when their files change.
type AssetManager struct {
	root    string
	assets  map[string]*AssetInfo
	deps    map[string][]string
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex
	// evictions waiting for Update, guarded by mutex
	pending []Changed

	// Changes is published from Update, never from the watcher.
	Changes *core.Hub[Changed]

	jobs *JobSystem

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// a single loader thread avoids disk thrashing
	js, err := NewJobSystem(1, 64)
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]*AssetInfo),
		deps:     make(map[string][]string),
		loaders:  make(map[metadata.ResourceType]Loader),
		Changes:  core.NewHub[Changed](),
		fsnotify: fsWatch,
		jobs:     js,
		done:     make(chan struct{}),
	}
	// Register loaders
	am.registerLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	return am, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	abs, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = abs
	am.wg.Add(1)
	go am.start()

	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		core.LogWarn("assets directory %s does not exist, nothing will be watched", abs)
		return nil
	}
	return am.addRecursive(abs)
}

// Root returns the directory relative asset names are resolved against.
func (am *AssetManager) Root() string {
	return am.root
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

func (am *AssetManager) resolve(name string) string {
	if filepath.IsAbs(name) || am.root == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(am.root, name)
}

// LoadAsset returns the cached resource for name, loading it on first use.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	path := am.resolve(name)

	am.mutex.RLock()
	asset, exists := am.assets[path]
	am.mutex.RUnlock()
	if exists && asset.Type == resourceType {
		return asset.resource, nil
	}

	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}
	res, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	deps := []string{path}
	if mr, ok := res.Data.(*loaders.ModelResource); ok {
		deps = mr.Dependencies
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[path] = &AssetInfo{
		Path:       path,
		Type:       resourceType,
		LastLoaded: time.Now(),
		resource:   res,
		deps:       deps,
	}
	for _, d := range deps {
		d = filepath.Clean(d)
		am.deps[d] = appendUnique(am.deps[d], path)
	}
	return res, nil
}

// LoadAsync loads name on the loader thread. done runs on the goroutine that
// calls Update, normally the main loop.
func (am *AssetManager) LoadAsync(name string, resourceType metadata.ResourceType, params interface{}, done func(*metadata.Resource, error)) error {
	return am.jobs.Submit(JobTask{
		Run: func() (interface{}, error) {
			return am.LoadAsset(name, resourceType, params)
		},
		OnComplete: func(result interface{}) {
			done(result.(*metadata.Resource), nil)
		},
		OnFailure: func(err error) {
			done(nil, err)
		},
	})
}

// Update runs the callbacks of finished asynchronous loads and publishes
// the evictions seen since the last call, on the calling goroutine. It
// returns the number of callbacks and events delivered.
func (am *AssetManager) Update() int {
	n := am.jobs.Update()

	am.mutex.Lock()
	changed := am.pending
	am.pending = nil
	am.mutex.Unlock()

	for _, c := range changed {
		core.LogDebug("asset %s changed, evicted", c.Path)
		am.Changes.Publish(c)
	}
	return n + len(changed)
}

// Model loads (or reuses) an OBJ model and returns a fresh instance of it,
// sharing mesh and material with every other instance.
func (am *AssetManager) Model(name string) (*metadata.Model, error) {
	res, err := am.LoadAsset(name, metadata.ResourceTypeModel, nil)
	if err != nil {
		return nil, err
	}
	base := res.Data.(*loaders.ModelResource).Model
	return base.Instance(base.Local), nil
}

// Font loads a bitmap font.
func (am *AssetManager) Font(name string) (*metadata.FontData, error) {
	res, err := am.LoadAsset(name, metadata.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, err
	}
	return res.Data.(*metadata.BitmapFontResourceData).Data, nil
}

// FontAtlas loads a bitmap font and a material sampling its first page.
func (am *AssetManager) FontAtlas(name string) (*metadata.FontData, *metadata.Material, error) {
	res, err := am.LoadAsset(name, metadata.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, nil, err
	}
	font := res.Data.(*metadata.BitmapFontResourceData)
	material := metadata.DefaultMaterial()
	material.Name = font.Data.Face
	if len(font.Pages) > 0 && font.Pages[0].Image != nil {
		material.Diffuse = font.Pages[0].Image
		material.DiffuseMap = font.Pages[0].File
	}
	return font.Data, material, nil
}

// UnloadAsset drops a cached asset. Absent assets are ignored.
func (am *AssetManager) UnloadAsset(name string) error {
	path := am.resolve(name)
	am.mutex.Lock()
	asset, ok := am.assets[path]
	if ok {
		am.forget(asset)
	}
	am.mutex.Unlock()
	if !ok {
		return nil
	}
	return am.loaders[asset.Type].Unload(asset.resource)
}

// Cached reports whether name is currently cached.
func (am *AssetManager) Cached(name string) bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.assets[am.resolve(name)]
	return ok
}

// forget removes asset and its dependency edges. Callers hold the lock.
func (am *AssetManager) forget(asset *AssetInfo) {
	delete(am.assets, asset.Path)
	for _, d := range asset.deps {
		d = filepath.Clean(d)
		users := am.deps[d]
		for i, u := range users {
			if u == asset.Path {
				users = append(users[:i], users[i+1:]...)
				break
			}
		}
		if len(users) == 0 {
			delete(am.deps, d)
		} else {
			am.deps[d] = users
		}
	}
}

// invalidate evicts every asset built from path. The Changed events are
// queued for the next Update.
func (am *AssetManager) invalidate(path string) {
	path = filepath.Clean(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	for _, user := range append([]string(nil), am.deps[path]...) {
		if asset, ok := am.assets[user]; ok {
			am.forget(asset)
			am.pending = append(am.pending, Changed{Path: asset.Path, Type: asset.Type})
		}
	}
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				am.invalidate(e.Name)
			}
			//Can't stat a deleted directory, so just try to remove it from the watch list.
			if e.Op&fsnotify.Remove != 0 {
				am.fsnotify.Remove(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", e)

		case <-am.done:
			return
		}
	}
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name, false)
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		if unWatch {
			return am.fsnotify.Remove(walkPath)
		}
		return am.fsnotify.Add(walkPath)
	})
}

// Shutdown stops the watcher and drops every cached asset.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.assets = make(map[string]*AssetInfo)
	am.deps = make(map[string][]string)
	am.pending = nil
	am.mutex.Unlock()

	close(am.done)
	_ = am.jobs.Shutdown()
	err := am.fsnotify.Close()
	am.wg.Wait()
	return err
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
