package kube

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"appcontroller/internal/events"
	appv1 "appcontroller/pkg/apis/application/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	eventsv1 "k8s.io/api/events/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
	"sigs.k8s.io/yaml"
)

const testFinalizer = "applications.per.naess"

func loadApplication(t *testing.T) *appv1.Application {
	t.Helper()
	data, err := os.ReadFile("testdata/application.yaml")
	require.NoError(t, err)

	app := &appv1.Application{}
	require.NoError(t, yaml.Unmarshal(data, app))
	return app
}

func newFakeBuilder(objs ...client.Object) *fake.ClientBuilder {
	return fake.NewClientBuilder().
		WithScheme(NewScheme()).
		WithStatusSubresource(&appv1.Application{}).
		WithObjects(objs...)
}

func testOptions() Options {
	return Options{
		FieldManager:        "cntrlr",
		ReportingController: "per.naess/application-controller",
		ReportingInstance:   "test-instance",
	}
}

func TestStore_GetApplication(t *testing.T) {
	app := loadApplication(t)
	store := NewStore(newFakeBuilder(app).Build(), testOptions())

	got, err := store.GetApplication(context.Background(), "default", "web")
	require.NoError(t, err)
	assert.Equal(t, "nginx:1.27", got.Spec.Image)
	assert.True(t, got.WasDeployed())
}

func TestStore_GetApplication_NotFound(t *testing.T) {
	store := NewStore(newFakeBuilder().Build(), testOptions())

	_, err := store.GetApplication(context.Background(), "default", "missing")
	require.Error(t, err)

	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "get", serr.Op)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestStore_ListApplications(t *testing.T) {
	app := loadApplication(t)
	store := NewStore(newFakeBuilder(app).Build(), testOptions())

	items, err := store.ListApplications(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = store.ListApplications(context.Background(), "other", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_CheckApplicationsServed(t *testing.T) {
	store := NewStore(newFakeBuilder().Build(), testOptions())
	assert.NoError(t, store.CheckApplicationsServed(context.Background(), ""))

	failing := newFakeBuilder().WithInterceptorFuncs(interceptor.Funcs{
		List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
			return apierrors.NewNotFound(appv1.GroupVersion.WithResource("applications").GroupResource(), "")
		},
	}).Build()
	store = NewStore(failing, testOptions())

	err := store.CheckApplicationsServed(context.Background(), "")
	var berr *BootstrapError
	require.True(t, errors.As(err, &berr))
	assert.True(t, apierrors.IsNotFound(err))
}

func TestStore_PatchApplicationStatus(t *testing.T) {
	app := loadApplication(t)

	var (
		gotType  types.PatchType
		gotData  []byte
		gotOpts  client.SubResourcePatchOptions
		gotSub   string
		gotName  string
		gotCalls int
	)
	c := newFakeBuilder(app).WithInterceptorFuncs(interceptor.Funcs{
		SubResourcePatch: func(ctx context.Context, c client.Client, subResourceName string, obj client.Object, patch client.Patch, opts ...client.SubResourcePatchOption) error {
			gotCalls++
			gotSub = subResourceName
			gotName = obj.GetName()
			gotType = patch.Type()
			data, err := patch.Data(obj)
			if err != nil {
				return err
			}
			gotData = data
			gotOpts.ApplyOptions(opts)
			return nil
		},
	}).Build()
	store := NewStore(c, testOptions())

	err := store.PatchApplicationStatus(context.Background(), app, appv1.ApplicationStatus{
		State:    appv1.ApplicationStateRunning,
		Deployed: false,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, gotCalls)
	assert.Equal(t, "status", gotSub)
	assert.Equal(t, "web", gotName)
	assert.Equal(t, types.ApplyPatchType, gotType)
	assert.Equal(t, "cntrlr", gotOpts.FieldManager)
	require.NotNil(t, gotOpts.Force)
	assert.True(t, *gotOpts.Force)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(gotData, &body))
	assert.Equal(t, "per.naess/v1", body["apiVersion"])
	assert.Equal(t, "Application", body["kind"])
	assert.Equal(t, map[string]interface{}{"state": "Running", "deployed": false}, body["status"])
}

func TestStore_PatchApplicationStatus_Error(t *testing.T) {
	app := loadApplication(t)
	c := newFakeBuilder(app).WithInterceptorFuncs(interceptor.Funcs{
		SubResourcePatch: func(ctx context.Context, c client.Client, subResourceName string, obj client.Object, patch client.Patch, opts ...client.SubResourcePatchOption) error {
			return apierrors.NewServiceUnavailable("try later")
		},
	}).Build()
	store := NewStore(c, testOptions())

	err := store.PatchApplicationStatus(context.Background(), app, appv1.ApplicationStatus{State: appv1.ApplicationStateRunning})
	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "patch-status", serr.Op)
	assert.True(t, apierrors.IsServiceUnavailable(err))
}

func TestStore_Finalizers(t *testing.T) {
	app := loadApplication(t)
	c := newFakeBuilder(app).Build()
	store := NewStore(c, testOptions())
	ctx := context.Background()

	current, err := store.GetApplication(ctx, "default", "web")
	require.NoError(t, err)

	patched, err := store.AddFinalizer(ctx, current, testFinalizer)
	require.NoError(t, err)
	assert.Contains(t, patched.Finalizers, testFinalizer)
	assert.NotEqual(t, current.ResourceVersion, patched.ResourceVersion)

	stored, err := store.GetApplication(ctx, "default", "web")
	require.NoError(t, err)
	assert.Equal(t, []string{testFinalizer}, stored.Finalizers)

	removed, err := store.RemoveFinalizer(ctx, stored, testFinalizer)
	require.NoError(t, err)
	assert.NotContains(t, removed.Finalizers, testFinalizer)

	stored, err = store.GetApplication(ctx, "default", "web")
	require.NoError(t, err)
	assert.Empty(t, stored.Finalizers)
}

func TestStore_FinalizerNoOpsIssueNoPatch(t *testing.T) {
	app := loadApplication(t)
	app.Finalizers = []string{testFinalizer}

	patches := 0
	c := newFakeBuilder(app).WithInterceptorFuncs(interceptor.Funcs{
		Patch: func(ctx context.Context, c client.WithWatch, obj client.Object, patch client.Patch, opts ...client.PatchOption) error {
			patches++
			return c.Patch(ctx, obj, patch, opts...)
		},
	}).Build()
	store := NewStore(c, testOptions())
	ctx := context.Background()

	same, err := store.AddFinalizer(ctx, app, testFinalizer)
	require.NoError(t, err)
	assert.Same(t, app, same)

	without := app.DeepCopy()
	without.Finalizers = nil
	same, err = store.RemoveFinalizer(ctx, without, testFinalizer)
	require.NoError(t, err)
	assert.Same(t, without, same)

	assert.Zero(t, patches)
}

func TestStore_FinalizerConflict(t *testing.T) {
	app := loadApplication(t)
	c := newFakeBuilder(app).WithInterceptorFuncs(interceptor.Funcs{
		Patch: func(ctx context.Context, c client.WithWatch, obj client.Object, patch client.Patch, opts ...client.PatchOption) error {
			return apierrors.NewConflict(appv1.GroupVersion.WithResource("applications").GroupResource(), obj.GetName(), errors.New("stale resourceVersion"))
		},
	}).Build()
	store := NewStore(c, testOptions())

	_, err := store.AddFinalizer(context.Background(), app, testFinalizer)
	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "add-finalizer", serr.Op)
	assert.True(t, apierrors.IsConflict(err))
}

func TestStore_PublishEvent(t *testing.T) {
	app := loadApplication(t)
	app.UID = "1234"
	c := newFakeBuilder(app).Build()
	store := NewStore(c, testOptions())
	ctx := context.Background()

	err := store.PublishEvent(ctx, app, events.Event{
		Type:   events.EventTypeNormal,
		Reason: events.ReasonRunningApplication,
		Note:   "Deployment complete `web`",
		Action: events.ActionReconciling,
	})
	require.NoError(t, err)

	var list eventsv1.EventList
	require.NoError(t, c.List(ctx, &list, client.InNamespace("default")))
	require.Len(t, list.Items, 1)

	ev := list.Items[0]
	assert.Equal(t, "RunningApplication", ev.Reason)
	assert.Equal(t, "Normal", ev.Type)
	assert.Equal(t, "Reconciling", ev.Action)
	assert.Equal(t, "Deployment complete `web`", ev.Note)
	assert.Equal(t, "per.naess/application-controller", ev.ReportingController)
	assert.Equal(t, "test-instance", ev.ReportingInstance)
	assert.Equal(t, "Application", ev.Regarding.Kind)
	assert.Equal(t, "per.naess/v1", ev.Regarding.APIVersion)
	assert.Equal(t, "web", ev.Regarding.Name)
	assert.Equal(t, types.UID("1234"), ev.Regarding.UID)
	assert.False(t, ev.EventTime.IsZero())
}

func TestNewReportingInstance(t *testing.T) {
	a := NewReportingInstance()
	b := NewReportingInstance()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
